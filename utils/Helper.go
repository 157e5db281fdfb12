package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	mathRand "math/rand"
	"os"
	"strings"
	"time"
	"unsafe"

	"zistino-api/model"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	phuslu "github.com/phuslu/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

var IsTestMode bool = false
var SessionExpirationTime time.Duration = 30

const (
	CRITICAL = "critical"
	ERROR    = "error"
	WARNING  = "warning"
	INFO     = "info"
)

// Logger carries log info for JsonErrorResponse so a failing handler can log and
// respond in one call.
type Logger struct {
	LogLevel    string
	Message     string
	ServiceName string
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

func RandString(n int) string {
	var src = mathRand.NewSource(time.Now().UnixNano())
	b := make([]byte, n)
	// A src.Int63() generates 63 random bits, enough for letterIdxMax characters!
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// preventing application from crashing abruptly. use defer PanicRecover() on top of the codes that may cause panic
func PanicRecover() {
	if r := recover(); r != nil {
		log.Println("Recovered from panic: ", r)
	}
}

func InitializeViper(configName string, configType string) {
	viper.SetConfigName(configName)
	if IsTestMode {
		fmt.Println("Running in Test mode...")
		viper.AddConfigPath("../") // Adjust the path for test environment
	} else {
		// Normal mode configuration
		viper.AddConfigPath("/app")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
	viper.SetConfigType(configType)
	if viper.AllKeys() == nil {
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal("Error reading config file, ", err)
		}
	} else {
		if err := viper.MergeInConfig(); err != nil {
			log.Fatalf("Error reading config file 2, %s", err)
		}
	}
}

func GenerateOTP(length int) (string, error) {
	otp := make([]byte, length)
	for i := range otp {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		otp[i] = byte('0' + n.Int64())
	}
	return string(otp), nil
}

// LogMessage writes a leveled log entry and returns the trace id attached to it.
func LogMessage(logLevel string, message string, service string, forcedTraceId ...string) string {
	traceId := RandString(12)
	//manually set log trace id
	if forcedTraceId != nil && forcedTraceId[0] != "" {
		traceId = forcedTraceId[0]
	}
	var logger phuslu.Logger
	if phuslu.IsTerminal(os.Stderr.Fd()) {
		logger = phuslu.Logger{
			Level:  phuslu.ParseLevel(logLevel),
			Caller: 1,
			Writer: &phuslu.ConsoleWriter{
				ColorOutput:    true,
				EndWithMessage: true,
			},
		}
	} else {
		logger = phuslu.Logger{
			Level: phuslu.ParseLevel(logLevel),
			Writer: &phuslu.FileWriter{
				Filename:     "logs/log.log",
				LocalTime:    true,
				FileMode:     os.FileMode(0600),
				EnsureFolder: true,
			},
		}
	}
	logger.Log().Str("Service", service).Str("Identifier", traceId).Msg(message)
	return traceId
}

func JsonErrorResponse(c *fiber.Ctx, statusCode int, message string, logData ...Logger) error {
	if len(logData) > 0 {
		LogMessage(logData[0].LogLevel, logData[0].Message, logData[0].ServiceName)
	}
	c.SendStatus(statusCode)
	return c.JSON(fiber.Map{"status": statusCode, "message": message})
}

// SecurePath validates the bearer token against the Redis session store and
// returns the logged in admin payload. Every authenticated handler calls this first.
func SecurePath(c *fiber.Ctx, redisClient *redis.Client) (*model.UserProfile, error) {
	token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if token == "" {
		return nil, errors.New("unauthorized, no access token provided")
	}
	payloadData, err := redisClient.Get(c.Context(), token).Result()
	if err == redis.Nil {
		return nil, errors.New("unauthorized, invalid or expired access token")
	} else if err != nil {
		LogMessage(CRITICAL, "SecurePath: unable to fetch access token, error: "+err.Error(), "zistino-api")
		return nil, errors.New("unable to verify access token")
	}
	userPayload := new(model.UserProfile)
	if err := json.Unmarshal([]byte(payloadData), userPayload); err != nil {
		LogMessage(CRITICAL, "SecurePath: unable to unmarshal session payload, error: "+err.Error(), "zistino-api")
		return nil, errors.New("unable to verify access token")
	}
	//sliding session window
	redisClient.Expire(c.Context(), token, SessionExpirationTime*time.Minute)
	userPayload.AccessToken = token
	return userPayload, nil
}

// MaskPhone hides the middle digits of a phone number for list/response payloads.
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return "**********"
	}
	return phone[:4] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-2:]
}
