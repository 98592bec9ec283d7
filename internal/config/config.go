package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// AuthConfig holds token and cookie parameters
type AuthConfig struct {
	JWTSecret     string
	JWTExpHours   int64
	CookieExpDays int64
	SecureCookie  bool // true when APP_ENV=production
}

// LoadAuthConfig loads JWT and cookie configuration from environment variables
func LoadAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	expHours, err := strconv.ParseInt(os.Getenv("JWT_EXPIRATION_HOURS"), 10, 64)
	if err != nil {
		log.Printf("Invalid JWT_EXPIRATION_HOURS, defaulting to 24: %v", err)
		expHours = 24
	}

	cookieDays, err := strconv.ParseInt(os.Getenv("JWT_COOKIE_EXPIRES_DAYS"), 10, 64)
	if err != nil {
		log.Printf("Invalid JWT_COOKIE_EXPIRES_DAYS, defaulting to 7: %v", err)
		cookieDays = 7
	}

	return &AuthConfig{
		JWTSecret:     secret,
		JWTExpHours:   expHours,
		CookieExpDays: cookieDays,
		SecureCookie:  os.Getenv("APP_ENV") == "production",
	}, nil
}

// SMTPConfig holds outgoing mail parameters
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadSMTPConfig loads SMTP configuration from environment variables
func LoadSMTPConfig() (*SMTPConfig, error) {
	host := os.Getenv("SMTP_HOST")
	from := os.Getenv("EMAIL_FROM")
	if host == "" || from == "" {
		return nil, fmt.Errorf("mail environment variables not set (SMTP_HOST, EMAIL_FROM)")
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		log.Printf("Invalid SMTP_PORT, defaulting to 587: %v", err)
		port = 587
	}

	return &SMTPConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
	}, nil
}
