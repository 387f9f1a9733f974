// seed-demo loads the demo dataset: an admin account, the demo technicians,
// stock, interventions, reports, daily stats and the default ticker
// messages. Dates are relative to today so the period filters always have
// recent data. Safe to rerun; fixed-id rows are first-or-created.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/models"
)

const (
	adminEmail    = "admin@ebf.ci"
	adminPassword = "EbfAdmin2024"
)

func dateStr(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

type statSeed struct {
	daysAgo       int
	site          models.Site
	revenue       int64
	expenses      int64
	interventions int
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	seedAdmin(ctx, db)
	seedTechnicians(ctx, db)
	seedStock(ctx, db)
	seedInterventions(ctx, db)
	seedReports(ctx, db)
	seedStats(ctx)
	seedTickerMessages(ctx, db)

	fmt.Println("Demo data seeded")
}

func seedAdmin(ctx context.Context, db *gorm.DB) {
	if _, err := models.GetProfileByEmail(ctx, adminEmail); err == nil {
		fmt.Printf("Admin account %q already exists\n", adminEmail)
		return
	}
	_, err := models.CreateProfile(ctx, &models.NewProfile{
		FullName: "EBF Admin",
		Email:    adminEmail,
		Password: adminPassword,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin account: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created admin account: %q\n", adminEmail)
}

func firstOrCreate(ctx context.Context, db *gorm.DB, id string, rec interface{}) {
	if err := db.WithContext(ctx).Where("id = ?", id).FirstOrCreate(rec).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed record %s: %v\n", id, err)
		os.Exit(1)
	}
}

func seedTechnicians(ctx context.Context, db *gorm.DB) {
	technicians := []models.Technician{
		{ID: "T1", Name: "Kouamé Jean", Specialty: "Électricité", Status: models.TechnicianStatusAvailable, Site: models.SiteAbidjan},
		{ID: "T2", Name: "Diallo Moussa", Specialty: "Plomberie", Status: models.TechnicianStatusBusy, Site: models.SiteAbidjan},
		{ID: "T3", Name: "Konan Yves", Specialty: "Froid", Status: models.TechnicianStatusAvailable, Site: models.SiteBouake},
	}
	for i := range technicians {
		firstOrCreate(ctx, db, technicians[i].ID, &technicians[i])
	}
}

func seedStock(ctx context.Context, db *gorm.DB) {
	stock := []models.StockItem{
		{ID: "S1", Name: "Câble 2.5mm", Quantity: 500, Threshold: 100, Unit: "m", Site: models.SiteAbidjan},
		{ID: "S2", Name: "Prises Legrand", Quantity: 45, Threshold: 50, Unit: "pcs", Site: models.SiteAbidjan},
		{ID: "S3", Name: "Tuyau PVC 40", Quantity: 20, Threshold: 30, Unit: "barres", Site: models.SiteBouake},
	}
	for i := range stock {
		firstOrCreate(ctx, db, stock[i].ID, &stock[i])
	}
}

func seedInterventions(ctx context.Context, db *gorm.DB) {
	interventions := []models.Intervention{
		{
			ID: "I1", Site: models.SiteAbidjan,
			Client: "Hôtel Ivoire", ClientPhone: "0707010203",
			Location: "Cocody Riviera", Description: "Maintenance clim",
			TechnicianId: "T1", TechnicianName: "Kouamé Jean",
			Date: dateStr(0), Status: models.InterventionStatusInProgress,
		},
		{
			ID: "I2", Site: models.SiteBouake,
			Client: "Résidence Akwaba", ClientPhone: "0505040506",
			Location: "Quartier Commerce", Description: "Fuite d'eau",
			TechnicianId: "T3", TechnicianName: "Konan Yves",
			Date: dateStr(2), Status: models.InterventionStatusPending,
		},
	}
	for i := range interventions {
		firstOrCreate(ctx, db, interventions[i].ID, &interventions[i])
	}
}

func seedReports(ctx context.Context, db *gorm.DB) {
	reports := []models.DailyReport{
		{
			ID: "R1", TechnicianName: "Kouamé Jean", Date: dateStr(0), Method: "Form", Site: models.SiteAbidjan,
			Content: "Intervention difficile. Manque de gaz.",
			Domain:  "Froid", InterventionType: "Dépannages", Location: "Hôtel Ivoire",
			Expenses: decimal.NewFromInt(5000), Revenue: decimal.NewFromInt(15000),
			ClientName: "M. Directeur", ClientPhone: "0707070707",
		},
		{
			ID: "R2", TechnicianName: "Konan Yves", Date: dateStr(1), Method: "Voice", Site: models.SiteBouake,
			Content: "Installation terminée chez M. Touré. RAS. Tout fonctionne.", AudioUrl: "mock_audio.mp3",
		},
	}
	for i := range reports {
		firstOrCreate(ctx, db, reports[i].ID, &reports[i])
	}
}

func seedStats(ctx context.Context) {
	stats := []statSeed{
		{0, models.SiteAbidjan, 150000, 105000, 5},
		{1, models.SiteAbidjan, 200000, 140000, 8},
		{2, models.SiteAbidjan, 120000, 90000, 4},
		{5, models.SiteAbidjan, 300000, 200000, 10},
		{15, models.SiteAbidjan, 450000, 300000, 12},
		{0, models.SiteBouake, 80000, 60000, 3},
		{1, models.SiteBouake, 95000, 70000, 4},
		{3, models.SiteBouake, 110000, 75000, 5},
		{6, models.SiteBouake, 70000, 55000, 2},
	}
	for _, s := range stats {
		_, err := models.ReplaceDailyStat(ctx, dateStr(s.daysAgo), s.site,
			decimal.NewFromInt(s.revenue), decimal.NewFromInt(s.expenses), s.interventions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed daily stat %s/%s: %v\n", dateStr(s.daysAgo), s.site, err)
			os.Exit(1)
		}
	}
}

func seedTickerMessages(ctx context.Context, db *gorm.DB) {
	messages := []models.TickerMessage{
		{ID: "1", Text: "Bienvenue sur EBF Manager v1.0", Type: models.TickerMessageInfo, DisplayOrder: 1, IsManual: true},
		{ID: "2", Text: "Félicitations ! Nous sommes à 30% de profits aujourd'hui", Type: models.TickerMessageSuccess, DisplayOrder: 2, IsManual: true},
		{ID: "3", Text: "Attention ! Stock de câble faible à Abidjan", Type: models.TickerMessageAlert, DisplayOrder: 3, IsManual: true},
		{ID: "4", Text: "Réunion générale Lundi à 08h00", Type: models.TickerMessageInfo, DisplayOrder: 4, IsManual: true},
	}
	for i := range messages {
		firstOrCreate(ctx, db, messages[i].ID, &messages[i])
	}
}
