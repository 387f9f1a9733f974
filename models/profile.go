package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the account record behind a login. Site may be empty for
// roving (Global) accounts.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name" validate:"required"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email"`
	Password  string    `gorm:"size:255" json:"-"`
	Role      Role      `gorm:"size:32;not null" json:"role" validate:"required"`
	Site      Site      `gorm:"size:32;index" json:"site"`
	Phone     string    `gorm:"size:32" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Profile) RecordID() string   { return p.ID }
func (p *Profile) RecordSite() string { return string(p.Site) }
func (p *Profile) RecordDate() string { return "" }

func init() {
	registerTable[Profile]("profiles")
}

type NewProfile struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required"`
	Site     Site   `json:"site"`
	Phone    string `json:"phone"`
}

// CreateProfile signs up a new account. Non-Visiteur users also get a
// technicians row so they appear in the team views, with the role as the
// specialty (Admin shows as "Administration").
func CreateProfile(ctx context.Context, input *NewProfile) (*Profile, error) {

	if !input.Role.IsValid() {
		return nil, utils.ErrorValidation
	}
	if input.Site != SiteAll && !input.Site.IsValid() {
		return nil, utils.ErrorValidation
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	profile := Profile{
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashed),
		Role:     input.Role,
		Site:     input.Site,
		Phone:    input.Phone,
	}

	if err := utils.ValidateUnique[Profile](ctx, "", "email", profile.Email, ""); err != nil {
		return nil, utils.ErrorValidation
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		if err := PublishChange(ctx, tx, "profiles", profile.ID, profile.Site, ChangeActionInsert, &profile, nil); err != nil {
			return err
		}
		if profile.Role == RoleVisiteur {
			return nil
		}
		specialty := string(profile.Role)
		if profile.Role == RoleAdmin {
			specialty = "Administration"
		}
		technician := Technician{
			ID:        profile.ID,
			Name:      profile.FullName,
			Specialty: specialty,
			Status:    TechnicianStatusAvailable,
			Site:      profile.Site,
		}
		if err := tx.Create(&technician).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "technicians", technician.ID, technician.Site, ChangeActionInsert, &technician, nil)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByEmail may return ErrorRecordNotFound.
func GetProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	db := config.GetDB()
	var profile Profile
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&profile).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &profile, nil
}

// GetProfile reads through a short redis cache keyed Profile:$id.
func GetProfile(ctx context.Context, id string) (*Profile, error) {
	if cached, err := utils.RetrieveRedis[Profile](id); err == nil && cached != nil {
		return cached, nil
	}
	profile, err := utils.FetchModel[Profile](ctx, id)
	if err != nil {
		return nil, err
	}
	_ = utils.StoreRedis[Profile](profile, profile.ID)
	return profile, nil
}

type UpdateProfileInput struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// UpdateProfile edits the display fields and keeps the linked technician
// name in step.
func UpdateProfile(ctx context.Context, id string, input *UpdateProfileInput) (*Profile, error) {

	profile, err := utils.FetchModel[Profile](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *profile

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile.FullName = strings.TrimSpace(input.FullName)
		profile.Phone = input.Phone
		if err := tx.Model(profile).Updates(map[string]interface{}{
			"FullName": profile.FullName,
			"Phone":    profile.Phone,
		}).Error; err != nil {
			return err
		}
		if err := PublishChange(ctx, tx, "profiles", profile.ID, profile.Site, ChangeActionUpdate, profile, &old); err != nil {
			return err
		}
		if profile.Role == RoleVisiteur {
			return nil
		}
		var technician Technician
		if err := tx.Where("id = ?", profile.ID).First(&technician).Error; err != nil {
			// profile may predate the technicians mirror
			return nil
		}
		oldTech := technician
		technician.Name = profile.FullName
		if err := tx.Model(&technician).Update("Name", technician.Name).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "technicians", technician.ID, technician.Site, ChangeActionUpdate, &technician, &oldTech)
	})
	if err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Profile](profile.ID)
	return profile, nil
}
