package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the canonical YYYY-MM-DD form every dated record carries.
const DateLayout = "2006-01-02"

var DefaultTimezone = "Africa/Abidjan"

func IsValidEmail(email string) bool {
	// Basic email validation regex pattern
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

func GenerateUniqueFilename() string {

	timestamp := time.Now().UnixNano()

	random := rand.Intn(1000)

	uniqueFilename := fmt.Sprintf("%d_%d", timestamp, random)

	return uniqueFilename
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]bool)
	result := []T{}
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

func SplitAndTrim(s string, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

// TodayString returns today's date as YYYY-MM-DD in the business timezone.
func TodayString(now time.Time) string {
	location, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return now.Format(DateLayout)
	}
	return now.In(location).Format(DateLayout)
}

// SiteLock obtains a short redis lock scoped to a site (or finer grain).
// The returned release function must be called when the critical section
// ends.
func SiteLock(ctx context.Context, site string, lockType string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", site, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, site)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for site", site, err)
		return nil, errors.New("could not obtain lock for site")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for site", site, err)
		return nil, err
	}
	return func() { _ = lock.Release(ctx) }, nil
}
