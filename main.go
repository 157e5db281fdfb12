package main

import (
	"fmt"

	"zistino-api/config"
	"zistino-api/routes"
	"zistino-api/utils"

	"github.com/spf13/viper"
)

func main() {
	utils.InitializeViper("config", "yml")
	config.InitializeConfig()
	config.ConnectDb()
	defer config.DB.Close()
	port := viper.GetInt("port")
	if port == 0 {
		port = 9000
	}
	server := routes.InitRoutes()
	if err := server.Listen(fmt.Sprintf("0.0.0.0:%d", port)); err != nil {
		utils.LogMessage(utils.CRITICAL, "main: server stopped, error: "+err.Error(), config.ServiceName)
	}
}
