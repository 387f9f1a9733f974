package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/utils"
	"github.com/google/uuid"
)

/*
caches:
	Token:$token
	Tokens:$email
	Reset:$resetToken
*/

// Session is what the middleware restores into the request context.
type Session struct {
	UserId   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Site     Site   `json:"site"`
}

type LoginInfo struct {
	Token    string `json:"token"`
	UserId   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Site     Site   `json:"site"`
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {

	profile, err := GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	err = utils.ComparePassword(profile.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, errors.New("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	token, err := utils.JwtGenerate(profile.ID, string(profile.Role), string(profile.Site))
	if err != nil {
		return nil, err
	}

	session := Session{
		UserId:   profile.ID,
		FullName: profile.FullName,
		Email:    profile.Email,
		Role:     profile.Role,
		Site:     profile.Site,
	}

	// add new token to the user's tokens set
	if err := config.AddRedisSet("Tokens:"+profile.Email, token); err != nil {
		return nil, err
	}
	if err := config.SetRedisObject("Token:"+token, &session, tokenLifespan()); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:    token,
		UserId:   profile.ID,
		FullName: profile.FullName,
		Role:     profile.Role,
		Site:     profile.Site,
	}, nil
}

// Logout destroys the current session token.
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	// remove current token from the tokens list
	email, ok := utils.GetUsernameFromContext(ctx)
	if !ok || email == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+email, token); err != nil {
		return false, err
	}
	return true, nil
}

func destroyAllSessions(email string) error {
	allTokens, err := config.GetRedisSetMembers("Tokens:" + email)
	if err != nil {
		return err
	}
	for _, token := range allTokens {
		if err := config.RemoveRedisKey("Token:" + token); err != nil {
			return err
		}
	}
	return config.RemoveRedisKey("Tokens:" + email)
}

// RequestPasswordReset issues a reset token, delivered out of band. An
// unknown email gets the same answer as a known one.
func RequestPasswordReset(ctx context.Context, email string) error {
	if !utils.IsValidEmail(strings.TrimSpace(email)) {
		return nil
	}
	profile, err := GetProfileByEmail(ctx, email)
	if err != nil {
		return nil
	}

	resetToken := uuid.NewString()
	if err := config.SetRedisValue("Reset:"+resetToken, profile.ID, time.Hour); err != nil {
		return err
	}

	logger := config.GetLogger()
	logger.WithFields(logrus.Fields{
		"module":   "models",
		"funcName": "RequestPasswordReset",
		"userId":   profile.ID,
		"token":    resetToken,
	}).Info("password reset token issued")
	return nil
}

// RestoreProfile recreates a missing profiles row from a live session. A
// wiped table otherwise strands every signed-in account.
func RestoreProfile(ctx context.Context, session *Session) (*Profile, error) {
	profile := Profile{
		ID:       session.UserId,
		FullName: session.FullName,
		Email:    strings.ToLower(strings.TrimSpace(session.Email)),
		Role:     Role(session.Role),
		Site:     Site(session.Site),
	}
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return PublishChange(ctx, tx, "profiles", profile.ID, profile.Site, ChangeActionInsert, &profile, nil)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword verifies the old password, rotates the hash and destroys
// every session of the account.
func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*Profile, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, errors.New("user id is required")
	}

	profile, err := utils.FetchModel[Profile](ctx, userId)
	if err != nil {
		return nil, err
	}

	if err := utils.ComparePassword(profile.Password, oldPassword); err != nil {
		return nil, errors.New("old password is wrong")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(profile).UpdateColumn("password", string(hashed)).Error; err != nil {
		return nil, err
	}

	if err := destroyAllSessions(profile.Email); err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Profile](profile.ID)

	return profile, nil
}
