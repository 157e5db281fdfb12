package config

import (
	"fmt"

	"zistino-api/utils"

	"github.com/fiorix/go-smpp/smpp"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

var Redis *redis.Client
var SMSTx *smpp.Transmitter
var ServiceName string = "zistino-api"
var Timezone string = "Asia/Tehran"

func InitializeConfig() {
	timezone := viper.GetString("timezone")
	if timezone != "" {
		Timezone = timezone
	}
	Redis = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", viper.GetString("redis.host"), viper.GetString("redis.port")),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.database"),
	})
	if smppAddr := viper.GetString("smpp.address"); smppAddr != "" {
		SMSTx = InitializeSMPP(smppAddr, viper.GetString("smpp.user"), viper.GetString("smpp.password"))
	}
}

func InitializeSMPP(address string, user string, password string) *smpp.Transmitter {
	tx := &smpp.Transmitter{
		Addr:   address,
		User:   user,
		Passwd: password,
	}
	conn := tx.Bind()
	// check initial connection status
	var status smpp.ConnStatus
	if status = <-conn; status.Error() != nil {
		utils.LogMessage(utils.CRITICAL, fmt.Sprintf("Unable to connect to %s, aborting: %v", address, status.Error()), ServiceName)
		return nil
	}
	fmt.Println("SMPP connection completed, status:", status.Status().String(), "addr:", address)
	return tx
}
