package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	IsTestMode = true
}

func TestMaskPhone(t *testing.T) {
	a := assert.New(t)
	a.Equal("+250*******01", MaskPhone("+250788678901"))
	a.Equal("0912*****21", MaskPhone("09123456721"))
	a.Equal("**********", MaskPhone("123"))
}

func TestRandString(t *testing.T) {
	a := assert.New(t)
	value := RandString(12)
	a.Len(value, 12)
	for _, ch := range value {
		a.True((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'))
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Aa1!aaaa")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Aa1!aaaa")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP(6)
	assert.NoError(t, err)
	assert.Len(t, otp, 6)
	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9')
	}
}

func TestValidateStruct(t *testing.T) {
	a := assert.New(t)
	type form struct {
		Names       string
		Email       string
		Description string
	}
	data := form{Names: "Jean Bosco", Email: "jean@zistino.com", Description: "ok value"}
	invalid := ValidateStruct(data, []string{"@."}, nil)
	a.Empty(invalid)

	data.Names = "Jean<script>"
	invalid = ValidateStruct(data, []string{"@."}, nil)
	a.Equal([]string{"Names"}, invalid)
	a.Contains(*ValidateStructText(invalid), "Names")

	// skipped fields are never flagged
	invalid = ValidateStruct(data, []string{"@."}, []string{"Names"})
	a.Empty(invalid)
	a.Nil(ValidateStructText(invalid))
}

func TestIsStrongPassword(t *testing.T) {
	validate := validator.New()
	validate.RegisterValidation("strong_password", IsStrongPassword)
	type form struct {
		Password string `validate:"strong_password"`
	}
	assert.NoError(t, validate.Struct(form{Password: "Aa1!aaaa"}))
	assert.Error(t, validate.Struct(form{Password: "weakpassword"}))
	assert.Error(t, validate.Struct(form{Password: "NOLOWER1!"}))
}

func TestPgErrorHelpers(t *testing.T) {
	a := assert.New(t)
	dup := &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.c) already exists."}
	ok, key := IsErrDuplicate(dup)
	a.True(ok)
	a.Equal("email", key)

	fk := &pgconn.PgError{Code: "23503", Detail: "Key (driver_id)=(99) is not present in table \"drivers\"."}
	ok, key = IsForeignKeyErr(fk)
	a.True(ok)
	a.Equal("driver_id", key)

	ok, _ = IsErrDuplicate(assert.AnError)
	a.False(ok)
	ok, _ = IsForeignKeyErr(fk)
	a.True(ok)
}
