package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tripgo/internal/payment"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	API      APIConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Port    int
	Env     string // "development", "production"
	BaseURL string // public base URL, used to build callback/return URLs
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type APIConfig struct {
	Key string
}

type PaymentConfig struct {
	VNPay   VNPayConfig
	MoMo    MoMoConfig
	ZaloPay ZaloPayConfig
	OnePay  OnePayConfig
}

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	APIURL     string
}

type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
}

type ZaloPayConfig struct {
	AppID     string
	Key1      string
	Key2      string
	CreateURL string
	QueryURL  string
	RefundURL string
}

type OnePayConfig struct {
	Merchant   string
	AccessCode string
	HashSecret string
	PayURL     string
	QueryURL   string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("VNPAY_PAY_URL", "https://pay.vnpay.vn/vpcpay.html")
	viper.SetDefault("VNPAY_API_URL", "https://merchant.vnpay.vn/merchant_webapi/api/transaction")
	viper.SetDefault("MOMO_ENDPOINT", "https://payment.momo.vn")
	viper.SetDefault("ZALOPAY_CREATE_URL", "https://openapi.zalopay.vn/v2/create")
	viper.SetDefault("ZALOPAY_QUERY_URL", "https://openapi.zalopay.vn/v2/query")
	viper.SetDefault("ZALOPAY_REFUND_URL", "https://openapi.zalopay.vn/v2/refund")
	viper.SetDefault("ONEPAY_PAY_URL", "https://onepay.vn/paygate/vpcpay.op")
	viper.SetDefault("ONEPAY_QUERY_URL", "https://onepay.vn/paygate/vpcdps.op")

	cfg := &Config{
		Server: ServerConfig{
			Port:    viper.GetInt("APP_PORT"),
			Env:     viper.GetString("APP_ENV"),
			BaseURL: viper.GetString("APP_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
		Payment: PaymentConfig{
			VNPay: VNPayConfig{
				TmnCode:    viper.GetString("VNPAY_TMN_CODE"),
				HashSecret: viper.GetString("VNPAY_HASH_SECRET"),
				PayURL:     viper.GetString("VNPAY_PAY_URL"),
				APIURL:     viper.GetString("VNPAY_API_URL"),
			},
			MoMo: MoMoConfig{
				PartnerCode: viper.GetString("MOMO_PARTNER_CODE"),
				AccessKey:   viper.GetString("MOMO_ACCESS_KEY"),
				SecretKey:   viper.GetString("MOMO_SECRET_KEY"),
				Endpoint:    viper.GetString("MOMO_ENDPOINT"),
			},
			ZaloPay: ZaloPayConfig{
				AppID:     viper.GetString("ZALOPAY_APP_ID"),
				Key1:      viper.GetString("ZALOPAY_KEY1"),
				Key2:      viper.GetString("ZALOPAY_KEY2"),
				CreateURL: viper.GetString("ZALOPAY_CREATE_URL"),
				QueryURL:  viper.GetString("ZALOPAY_QUERY_URL"),
				RefundURL: viper.GetString("ZALOPAY_REFUND_URL"),
			},
			OnePay: OnePayConfig{
				Merchant:   viper.GetString("ONEPAY_MERCHANT"),
				AccessCode: viper.GetString("ONEPAY_ACCESS_CODE"),
				HashSecret: viper.GetString("ONEPAY_HASH_SECRET"),
				PayURL:     viper.GetString("ONEPAY_PAY_URL"),
				QueryURL:   viper.GetString("ONEPAY_QUERY_URL"),
			},
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.API.Key == "" {
		log.Println("WARNING: API_KEY is not set")
	}

	return cfg, nil
}

// LoadDatabaseOnly reads just the database settings, for schema
// bootstrap runs that should not require a full configuration.
func LoadDatabaseOnly() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")

	return &DatabaseConfig{
		Host:    viper.GetString("DB_HOST"),
		Port:    viper.GetString("DB_PORT"),
		Name:    viper.GetString("DB_NAME"),
		User:    viper.GetString("DB_USER"),
		Pass:    viper.GetString("DB_PASS"),
		Charset: viper.GetString("DB_CHARSET"),
	}, nil
}

// PaymentGatewayConfig maps env-level payment settings to the gateway
// registry config. Only gateways with credentials present get a
// non-nil entry; the rest stay unconfigured.
func (c *Config) PaymentGatewayConfig() payment.Config {
	out := payment.Config{}
	base := c.Server.BaseURL

	if c.Payment.VNPay.TmnCode != "" && c.Payment.VNPay.HashSecret != "" {
		out.VNPay = &payment.VNPayConfig{
			TmnCode:    c.Payment.VNPay.TmnCode,
			HashSecret: c.Payment.VNPay.HashSecret,
			PayURL:     c.Payment.VNPay.PayURL,
			APIURL:     c.Payment.VNPay.APIURL,
			ReturnURL:  base + "/payment/vnpay/return",
			IPNURL:     base + "/payment/vnpay/callback",
		}
	}
	if c.Payment.MoMo.PartnerCode != "" && c.Payment.MoMo.SecretKey != "" {
		out.MoMo = &payment.MoMoConfig{
			PartnerCode: c.Payment.MoMo.PartnerCode,
			AccessKey:   c.Payment.MoMo.AccessKey,
			SecretKey:   c.Payment.MoMo.SecretKey,
			Endpoint:    c.Payment.MoMo.Endpoint,
			RedirectURL: base + "/payment/momo/return",
			IPNURL:      base + "/payment/momo/callback",
		}
	}
	if c.Payment.ZaloPay.AppID != "" && c.Payment.ZaloPay.Key1 != "" && c.Payment.ZaloPay.Key2 != "" {
		out.ZaloPay = &payment.ZaloPayConfig{
			AppID:       c.Payment.ZaloPay.AppID,
			Key1:        c.Payment.ZaloPay.Key1,
			Key2:        c.Payment.ZaloPay.Key2,
			CreateURL:   c.Payment.ZaloPay.CreateURL,
			QueryURL:    c.Payment.ZaloPay.QueryURL,
			RefundURL:   c.Payment.ZaloPay.RefundURL,
			CallbackURL: base + "/payment/zalopay/callback",
		}
	}
	if c.Payment.OnePay.Merchant != "" && c.Payment.OnePay.HashSecret != "" {
		out.OnePay = &payment.OnePayConfig{
			Merchant:   c.Payment.OnePay.Merchant,
			AccessCode: c.Payment.OnePay.AccessCode,
			HashSecret: c.Payment.OnePay.HashSecret,
			PayURL:     c.Payment.OnePay.PayURL,
			QueryURL:   c.Payment.OnePay.QueryURL,
			ReturnURL:  base + "/payment/onepay/return",
		}
	}
	return out
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
