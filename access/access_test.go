package access

import (
	"testing"

	"bitbucket.org/ebfdigital/manager_backend/models"
)

func TestCanWrite(t *testing.T) {
	tests := []struct {
		path string
		role models.Role
		want bool
	}{
		// Admin writes everywhere
		{"/techniciens/interventions", models.RoleAdmin, true},
		{"/comptabilite/bilan", models.RoleAdmin, true},
		{"/equipe", models.RoleAdmin, true},

		// Visiteur writes nowhere
		{"/techniciens/interventions", models.RoleVisiteur, false},
		{"/secretariat/clients", models.RoleVisiteur, false},

		// trade roles write only inside their department
		{"/techniciens/rapports", models.RoleTechnicien, true},
		{"/quincaillerie/stocks", models.RoleTechnicien, false},
		{"/quincaillerie/achats", models.RoleMagasinier, true},
		{"/secretariat/caisse", models.RoleMagasinier, false},
		{"/secretariat/planning", models.RoleSecretaire, true},
		{"/techniciens/chantiers", models.RoleSecretaire, false},

		// /equipe and /comptabilite are read-only for non-admins
		{"/equipe", models.RoleTechnicien, false},
		{"/comptabilite/paie", models.RoleSecretaire, false},
		{"/comptabilite/rh", models.RoleMagasinier, false},

		// unknown roles are denied
		{"/techniciens/interventions", models.Role("Stagiaire"), false},
	}
	for _, tt := range tests {
		if got := CanWrite(tt.path, tt.role); got != tt.want {
			t.Errorf("CanWrite(%q, %q) = %v, want %v", tt.path, tt.role, got, tt.want)
		}
	}
}

func TestSectionRegistry(t *testing.T) {
	if len(Sections) != 14 {
		t.Fatalf("expected 14 sections, got %d", len(Sections))
	}

	planning := SectionByPath("/secretariat/planning")
	if planning == nil {
		t.Fatal("planning section missing")
	}
	if !planning.ReadOnly || planning.Table != "interventions" {
		t.Errorf("planning should be a read-only view of interventions, got %+v", planning)
	}

	if SectionByPath("/nope") != nil {
		t.Error("unknown path should return nil")
	}

	// every section must target a synced table
	for _, s := range Sections {
		if !models.IsSyncedTable(s.Table) {
			t.Errorf("section %s targets unregistered table %q", s.Path, s.Table)
		}
	}
}
