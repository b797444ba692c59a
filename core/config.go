package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Build        string
		Env          string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Server    ServerConfig
		Database  DatabaseConfig
		Dashboard DashboardConfig
		Mail      MailConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string // inmem | postgres
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	DashboardConfig struct {
		DefaultSection string
		SeedFile       string // empty: embedded seed
		Timezone       string
		ChartWidth     int
		ChartHeight    int
	}

	MailConfig struct {
		DefaultFromEmail string
		SendgridApiKey   string
		ReportRecipients []string
	}
)

const (
	EngineInMem    = "inmem"
	EnginePostgres = "postgres"
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c DatabaseConfig) Persistent() bool {
	return c.Engine == EnginePostgres
}

// Location resolves the dashboard timezone, falling back to the local one.
func (c DashboardConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("config: unknown timezone %q, using local time", c.Timezone)
		return time.Local
	}
	return loc
}

func (c MailConfig) DefaultFrom() mail.Address {
	addr, err := mail.ParseAddress(c.DefaultFromEmail)
	if err != nil {
		return mail.Address{Address: c.DefaultFromEmail}
	}
	return *addr
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Rollcall")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", EngineInMem)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "rollcall")
	v.SetDefault("database.user", "rollcall")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("dashboard.defaultSection", "10-A")
	v.SetDefault("dashboard.seedFile", "")
	v.SetDefault("dashboard.timezone", "Local")
	v.SetDefault("dashboard.chartWidth", 640)
	v.SetDefault("dashboard.chartHeight", 320)

	v.SetDefault("mail.defaultFromEmail", "Rollcall <noreply@localhost>")
	v.SetDefault("mail.sendgridApiKey", "")
	v.SetDefault("mail.reportRecipients", []string{})

	return v
}

// NewConfig reads the configuration from the environment.
// ENV selects the environment (DEV by default) and the matching config/.env.<env> file, when present.
func NewConfig() *Config {
	v := newViper()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	// server.debugHost <- DEV_SERVER_DEBUGHOST
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Dashboard: DashboardConfig{
			DefaultSection: v.GetString("dashboard.defaultSection"),
			SeedFile:       v.GetString("dashboard.seedFile"),
			Timezone:       v.GetString("dashboard.timezone"),
			ChartWidth:     v.GetInt("dashboard.chartWidth"),
			ChartHeight:    v.GetInt("dashboard.chartHeight"),
		},
		Mail: MailConfig{
			DefaultFromEmail: v.GetString("mail.defaultFromEmail"),
			SendgridApiKey:   v.GetString("mail.sendgridApiKey"),
			ReportRecipients: v.GetStringSlice("mail.reportRecipients"),
		},
	}
}

// NewTestConfig returns the configuration used by tests: no request logs, in-memory storage.
func NewTestConfig() *Config {
	v := newViper()
	v.Set("testMode", true)
	v.Set("debug", false)

	return &Config{
		AppName:  v.GetString("appName"),
		Build:    "test",
		Env:      "TEST",
		TestMode: true,
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  true,
		},
		Database: DatabaseConfig{Engine: EngineInMem},
		Dashboard: DashboardConfig{
			DefaultSection: v.GetString("dashboard.defaultSection"),
			Timezone:       "UTC",
			ChartWidth:     v.GetInt("dashboard.chartWidth"),
			ChartHeight:    v.GetInt("dashboard.chartHeight"),
		},
		Mail: MailConfig{
			DefaultFromEmail: v.GetString("mail.defaultFromEmail"),
			ReportRecipients: []string{"office@school.test"},
		},
	}
}
