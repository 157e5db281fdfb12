package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

// RegexValidation backs the custom `regex` tag: validate:"regex=^[a-z]*$"
func RegexValidation(fl validator.FieldLevel) bool {
	pattern := fl.Param()
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(fl.Field().String())
}

func IsStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

// ValidateStruct scans the string fields of a form payload for characters outside
// the safe set (letters, digits, space, - and _ plus the extra allowed ones) and
// returns the offending field names. skipFields are not checked at all.
func ValidateStruct(data interface{}, allowedSpecialChars []string, skipFields []string) []string {
	invalidKeys := []string{}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return invalidKeys
	}
	t := v.Type()
fields:
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).Kind() != reflect.String {
			continue
		}
		for _, skip := range skipFields {
			if t.Field(i).Name == skip {
				continue fields
			}
		}
		value := v.Field(i).String()
		for _, ch := range value {
			if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == ' ' || ch == '-' || ch == '_' {
				continue
			}
			allowed := false
			for _, special := range allowedSpecialChars {
				if strings.ContainsRune(special, ch) {
					allowed = true
					break
				}
			}
			if !allowed {
				invalidKeys = append(invalidKeys, t.Field(i).Name)
				continue fields
			}
		}
	}
	return invalidKeys
}

func ValidateStructText(invalidKeys []string) *string {
	if len(invalidKeys) == 0 {
		return nil
	}
	message := fmt.Sprintf("These fields contain unexpected characters: %s", strings.Join(invalidKeys, ", "))
	return &message
}

// IsErrDuplicate reports a postgres unique violation and the key it names.
func IsErrDuplicate(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true, extractKeyName(pgErr.Detail)
	}
	return false, ""
}

// IsForeignKeyErr reports a postgres foreign key violation and the key it names.
func IsForeignKeyErr(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return true, extractKeyName(pgErr.Detail)
	}
	return false, ""
}

// detail looks like: Key (email)=(x@y.z) already exists.
func extractKeyName(detail string) string {
	start := strings.Index(detail, "(")
	end := strings.Index(detail, ")")
	if start >= 0 && end > start {
		return detail[start+1 : end]
	}
	return "record"
}
