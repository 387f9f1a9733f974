// Package access decides who may write where. Resolution is pure and is
// re-run on every request; roles can change mid-session and nothing here
// is cached.
package access

import (
	"strings"

	"bitbucket.org/ebfdigital/manager_backend/models"
)

// CanWrite reports whether a role may mutate records under a section path.
// Admin writes everywhere, Visiteur nowhere; the three trade roles write
// only inside their own department. Everything else, including /equipe and
// /comptabilite for non-admins, is read-only.
func CanWrite(path string, role models.Role) bool {
	if role == models.RoleAdmin {
		return true
	}
	if role == models.RoleVisiteur {
		return false
	}
	if role == models.RoleTechnicien && strings.HasPrefix(path, "/techniciens") {
		return true
	}
	if role == models.RoleMagasinier && strings.HasPrefix(path, "/quincaillerie") {
		return true
	}
	if role == models.RoleSecretaire && strings.HasPrefix(path, "/secretariat") {
		return true
	}
	return false
}

// Section maps a routable dashboard path to the table it manages. ReadOnly
// sections are views over another section's table and never accept writes.
type Section struct {
	Path     string `json:"path"`
	Label    string `json:"label"`
	Table    string `json:"table"`
	ReadOnly bool   `json:"read_only"`
}

// Sections is the fixed registry of routable sections. Paths and labels
// mirror the dashboard menu.
var Sections = []Section{
	{Path: "/techniciens/interventions", Label: "Interventions", Table: "interventions"},
	{Path: "/techniciens/rapports", Label: "Rapports Journaliers", Table: "reports"},
	{Path: "/techniciens/materiel", Label: "Matériel", Table: "stocks"},
	{Path: "/techniciens/chantiers", Label: "Chantiers", Table: "chantiers"},
	{Path: "/comptabilite/bilan", Label: "Bilan Financier", Table: "transactions"},
	{Path: "/comptabilite/rh", Label: "Ressources Humaines", Table: "employees"},
	{Path: "/comptabilite/paie", Label: "Paie & Salaires", Table: "payrolls"},
	{Path: "/secretariat/planning", Label: "Planning", Table: "interventions", ReadOnly: true},
	{Path: "/secretariat/clients", Label: "Gestion Clients", Table: "clients"},
	{Path: "/secretariat/caisse", Label: "Caisse Menu", Table: "caisse"},
	{Path: "/quincaillerie/stocks", Label: "Stocks", Table: "stocks"},
	{Path: "/quincaillerie/fournisseurs", Label: "Fournisseurs", Table: "suppliers"},
	{Path: "/quincaillerie/achats", Label: "Bons d'achat", Table: "purchases"},
	{Path: "/equipe", Label: "Notre Équipe", Table: "technicians"},
}

// SectionByPath returns the registered section for a path, or nil.
func SectionByPath(path string) *Section {
	for i := range Sections {
		if Sections[i].Path == path {
			return &Sections[i]
		}
	}
	return nil
}
