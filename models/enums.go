package models

// Site is one of the two physical branches. The empty string means
// "all sites" and is only valid as a filter, never on a stored record.
type Site string

const (
	SiteAbidjan Site = "Abidjan"
	SiteBouake  Site = "Bouaké"
	SiteAll     Site = ""
)

func (s Site) IsValid() bool {
	return s == SiteAbidjan || s == SiteBouake
}

type Period string

const (
	PeriodDay   Period = "DAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodYear  Period = "YEAR"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleTechnicien Role = "Technicien"
	RoleMagasinier Role = "Magasinier"
	RoleSecretaire Role = "Secretaire"
	RoleVisiteur   Role = "Visiteur"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTechnicien, RoleMagasinier, RoleSecretaire, RoleVisiteur:
		return true
	}
	return false
}

// ChangeAction mirrors the row-level operation carried on the change feed.
type ChangeAction string

const (
	ChangeActionInsert ChangeAction = "INSERT"
	ChangeActionUpdate ChangeAction = "UPDATE"
	ChangeActionDelete ChangeAction = "DELETE"
)

// TickerMessageType drives the banner colour on the dashboard.
type TickerMessageType string

const (
	TickerMessageAlert   TickerMessageType = "alert"
	TickerMessageSuccess TickerMessageType = "success"
	TickerMessageInfo    TickerMessageType = "info"
)

// Intervention lifecycle. Stored in English, rendered in French by the
// dashboard ("Planifié" / "En cours" / "Exécuté").
const (
	InterventionStatusPending    = "Pending"
	InterventionStatusInProgress = "In Progress"
	InterventionStatusCompleted  = "Completed"
)

const (
	TechnicianStatusAvailable = "Available"
	TechnicianStatusBusy      = "Busy"
	TechnicianStatusOff       = "Off"
)

const (
	PayrollStatusPaid    = "Payé"
	PayrollStatusPending = "En attente"
)

const (
	ChantierStatusInProgress = "En cours"
	ChantierStatusDone       = "Terminé"
	ChantierStatusSuspended  = "Suspendu"
)

const (
	CashFlowIn  = "Entrée"
	CashFlowOut = "Sortie"
)

const (
	PurchaseStatusOrdered   = "Commandé"
	PurchaseStatusReceived  = "Reçu"
	PurchaseStatusCancelled = "Annulé"
)

type TransactionType string

const (
	TransactionTypeRevenue TransactionType = "Recette"
	TransactionTypeExpense TransactionType = "Dépense"
)

// Outbox publish lifecycle.
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)
