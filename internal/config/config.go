package config

import (
	"github.com/spf13/viper"
)

// Config holds the application settings, read from configs/config.env with
// environment variable overrides.
type Config struct {
	ServerAddress    string `mapstructure:"SERVER_ADDRESS"`
	AddressCSV       string `mapstructure:"ADDRESS_CSV"`
	CoordinatesCSV   string `mapstructure:"COORDINATES_CSV"`
	TemplateGlob     string `mapstructure:"TEMPLATE_GLOB"`
	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`
}

// LoadConfig reads configuration from the given directory, letting
// environment variables of the same name take precedence.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("env")

	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}
