package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bitbucket.org/ebfdigital/manager_backend/access"
	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/feed"
	"bitbucket.org/ebfdigital/manager_backend/models"
	"bitbucket.org/ebfdigital/manager_backend/models/reports"
	"bitbucket.org/ebfdigital/manager_backend/utils"
)

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func signupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProfile
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		profile, err := models.CreateProfile(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": profile})
	}
}

func signinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		info, err := models.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": info})
	}
}

func signoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": ok})
	}
}

func resetRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := models.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue reset token"})
			return
		}
		// same answer for known and unknown emails
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		profile, err := models.GetProfile(c.Request.Context(), userId)
		if err != nil {
			// rebuild a wiped profile row from the live session
			token, _ := utils.GetTokenFromContext(c.Request.Context())
			var session models.Session
			if found, cacheErr := config.GetRedisObject("Token:"+token, &session); cacheErr == nil && found && session.UserId == userId {
				profile, err = models.RestoreProfile(c.Request.Context(), &session)
			}
			if err != nil || profile == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": profile})
	}
}

func updateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var input models.UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		profile, err := models.UpdateProfile(c.Request.Context(), userId, &input)
		if err != nil {
			c.JSON(mutationStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": profile})
	}
}

func changePasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		profile, err := models.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": profile.ID})
	}
}

func sectionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": access.Sections})
	}
}

// selectionFromQuery validates the site/period query parameters shared by
// the read endpoints.
func selectionFromQuery(c *gin.Context) (models.Site, models.Period, bool) {
	site := models.Site(c.Query("site"))
	if site != models.SiteAll && !site.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site"})
		return "", "", false
	}
	period := models.Period(c.Query("period"))
	if period != "" && !period.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return "", "", false
	}
	return site, period, true
}

func sectionFromParam(c *gin.Context) *access.Section {
	sectionPath := c.Param("section")
	section := access.SectionByPath(sectionPath)
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return nil
	}
	return section
}

func sectionGetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		section := sectionFromParam(c)
		if section == nil {
			return
		}
		site, period, ok := selectionFromQuery(c)
		if !ok {
			return
		}
		rows := entityStore.Filtered(section.Table, site, period, time.Now())
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

// gateSectionWrite resolves the caller's permission for a section and, when
// allowed, returns a context carrying the section path for the store's own
// re-check.
func gateSectionWrite(c *gin.Context, section *access.Section) (bool, string) {
	if section.ReadOnly {
		c.JSON(http.StatusForbidden, gin.H{"error": "section is read-only"})
		return false, ""
	}
	role, ok := utils.GetRoleFromContext(c.Request.Context())
	if !ok || role == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false, ""
	}
	if !access.CanWrite(section.Path, models.Role(role)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return false, ""
	}
	return true, role
}

// defaultSitePayload injects the session's site into a payload that carries
// none, the way the dashboard forms pre-fill the current site.
func defaultSitePayload(c *gin.Context, payload []byte) []byte {
	site, ok := utils.GetSiteFromContext(c.Request.Context())
	if !ok || site == "" {
		return payload
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return payload
	}
	if raw, exists := fields["site"]; exists && string(raw) != `""` && string(raw) != "null" {
		return payload
	}
	siteJSON, err := json.Marshal(site)
	if err != nil {
		return payload
	}
	fields["site"] = siteJSON
	patched, err := json.Marshal(fields)
	if err != nil {
		return payload
	}
	return patched
}

// defaultDatePayload stamps today's date (business timezone) onto a dated
// payload that omits it.
func defaultDatePayload(payload []byte, now time.Time) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return payload
	}
	if raw, exists := fields["date"]; exists && string(raw) != `""` && string(raw) != "null" {
		return payload
	}
	dateJSON, err := json.Marshal(utils.TodayString(now))
	if err != nil {
		return payload
	}
	fields["date"] = dateJSON
	patched, err := json.Marshal(fields)
	if err != nil {
		return payload
	}
	return patched
}

func sectionInsertHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		section := sectionFromParam(c)
		if section == nil {
			return
		}
		allowed, _ := gateSectionWrite(c, section)
		if !allowed {
			return
		}

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil || len(payload) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		payload = defaultSitePayload(c, payload)
		if section.Table == "reports" || section.Table == "transactions" {
			payload = defaultDatePayload(payload, time.Now())
		}

		ctx := utils.SetSectionPathInContext(c.Request.Context(), section.Path)
		rec, err := entityStore.Insert(ctx, section.Table, payload)
		if err != nil {
			c.JSON(mutationStatus(err), gin.H{"error": err.Error()})
			return
		}
		applyStatsDelta(ctx, rec)
		c.JSON(http.StatusOK, gin.H{"data": rec})
	}
}

// applyStatsDelta rolls a freshly inserted report or ledger transaction
// into the (date, site) KPI row. Stats deltas ride behind the insert, so a
// failed upsert loses only the derived figure, never the record.
func applyStatsDelta(ctx context.Context, rec models.Synced) {
	logger := config.GetLogger()
	switch v := rec.(type) {
	case *models.DailyReport:
		if v.Date == "" {
			return
		}
		if _, err := models.UpsertDailyStat(ctx, v.Date, v.Site, v.Revenue, v.Expenses, 1); err != nil {
			config.LogError(logger, "handlers", "applyStatsDelta", "reports", v.ID, err)
		}
	case *models.Transaction:
		if v.Date == "" {
			return
		}
		revenue, expenses := decimal.Zero, decimal.Zero
		if v.Type == models.TransactionTypeRevenue {
			revenue = v.Amount
		} else {
			expenses = v.Amount
		}
		if _, err := models.UpsertDailyStat(ctx, v.Date, v.Site, revenue, expenses, 0); err != nil {
			config.LogError(logger, "handlers", "applyStatsDelta", "transactions", v.ID, err)
		}
	}
}

func sectionDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		section := sectionFromParam(c)
		if section == nil {
			return
		}
		allowed, _ := gateSectionWrite(c, section)
		if !allowed {
			return
		}
		id := strings.TrimSpace(c.Query("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}

		ctx := utils.SetSectionPathInContext(c.Request.Context(), section.Path)
		rec, err := entityStore.Delete(ctx, section.Table, id)
		if err != nil {
			c.JSON(mutationStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rec})
	}
}

func mutationStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrorPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, utils.ErrorRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func metricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		site, period, ok := selectionFromQuery(c)
		if !ok {
			return
		}
		now := time.Now()
		totals := engine.Totals(site, period, now)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"totals":         totals,
			"margin_percent": engine.Margin(site, period, now),
			"satisfaction":   engine.Satisfaction(site, period, now),
		}})
	}
}

func tickerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		site, _, ok := selectionFromQuery(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": engine.Ticker(site, time.Now())})
	}
}

func requireAdmin(c *gin.Context) bool {
	role, ok := utils.GetRoleFromContext(c.Request.Context())
	if !ok || models.Role(role) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return false
	}
	return true
}

func tickerCreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c) {
			return
		}
		var input models.NewTickerMessage
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		message, err := models.CreateTickerMessage(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": message})
	}
}

func tickerDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c) {
			return
		}
		message, err := models.DeleteTickerMessage(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(mutationStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": message})
	}
}

func notificationReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		notification, err := models.MarkNotificationRead(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(mutationStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": notification})
	}
}

func filteredStats(site models.Site, period models.Period, now time.Time) []*models.DailyStat {
	rows := entityStore.Filtered("daily_stats", site, period, now)
	out := make([]*models.DailyStat, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.(*models.DailyStat))
	}
	return out
}

func filteredReports(site models.Site, period models.Period, now time.Time) []*models.DailyReport {
	rows := entityStore.Filtered("reports", site, period, now)
	out := make([]*models.DailyReport, 0, len(rows))
	for _, rec := range rows {
		out = append(out, rec.(*models.DailyReport))
	}
	return out
}

func synthesisBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		site, period, ok := selectionFromQuery(c)
		if !ok {
			return
		}
		siteLabel := string(site)
		if siteLabel == "" {
			siteLabel = "Global"
		}
		stats := filteredStats(site, period, time.Now())
		text := aiAssistant.AnalyzeBusinessData(c.Request.Context(), stats, siteLabel)
		c.JSON(http.StatusOK, gin.H{"data": text})
	}
}

func synthesisReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		site, period, ok := selectionFromQuery(c)
		if !ok {
			return
		}
		periodLabel := string(period)
		if periodLabel == "" {
			periodLabel = "toutes périodes"
		}
		reportRows := filteredReports(site, period, time.Now())
		text := aiAssistant.AnalyzeReports(c.Request.Context(), reportRows, periodLabel)
		c.JSON(http.StatusOK, gin.H{"data": text})
	}
}

func exportStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		site, period, ok := selectionFromQuery(c)
		if !ok {
			return
		}
		stats := filteredStats(site, period, time.Now())

		c.Writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Writer.Header().Set("Content-Disposition", "attachment; filename=stats.xlsx")
		if err := reports.ExportStatsExcel(stats, c.Writer); err != nil {
			logger := config.GetLogger()
			config.LogError(logger, "server.go", "exportStatsHandler", "write xlsx", nil, err)
		}
	}
}

func voiceNoteUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		objectName := path.Join("voice-notes", utils.GenerateUniqueFilename()+ext)
		url, err := utils.UploadVoiceNoteToGCS(c.Request.Context(), objectName, file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"audioUrl": url}})
	}
}

// feedPushHandler receives the Pub/Sub mirror of the change feed for
// deployments without a resident redis subscriber. Malformed deliveries are
// acked and dropped to avoid retry loops.
func feedPushHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			config.LogError(logger, "server.go", "feedPushHandler", "io.ReadAll", nil, err)
			c.Status(http.StatusNoContent)
			return
		}

		event, err := feed.DecodePushEnvelope(body)
		if err != nil {
			config.LogError(logger, "server.go", "feedPushHandler", "decode envelope", string(body), err)
			c.Status(http.StatusNoContent)
			return
		}

		synchronizer.Apply(event)
		c.Status(http.StatusNoContent)
	}
}

type outboxReplayRequest struct {
	RecordId int `json:"record_id"`
}

// outboxReplayHandler requeues a DEAD/FAILED outbox row for the dispatcher.
func outboxReplayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c) {
			return
		}

		var req outboxReplayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.RecordId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record_id is required"})
			return
		}

		db := config.GetDB()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "db is nil"})
			return
		}
		if err := utils.ValidateResourceId[models.ChangeMessageRecord](c.Request.Context(), req.RecordId); err != nil {
			c.JSON(mutationStatus(err), gin.H{"error": err.Error()})
			return
		}
		now := time.Now().UTC()
		if err := db.WithContext(c.Request.Context()).
			Model(&models.ChangeMessageRecord{}).
			Where("id = ?", req.RecordId).
			Updates(map[string]interface{}{
				"publish_status":     models.OutboxPublishStatusFailed,
				"next_attempt_at":    &now,
				"locked_at":          nil,
				"locked_by":          nil,
				"last_publish_error": nil,
			}).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"record_id":       req.RecordId,
			"publish_status":  models.OutboxPublishStatusFailed,
			"next_attempt_at": now.Format(time.RFC3339Nano),
		})
	}
}
