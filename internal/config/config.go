package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"coaching.db"`

	MercadoPago MercadoPago `envPrefix:"MP_"`
	Storage     Storage     `envPrefix:"STORAGE_"`
	Admin       Admin       `envPrefix:"ADMIN_"`
	Pricing     Pricing
}

type MercadoPago struct {
	BaseApiURL  string `env:"BASE_API_URL" envDefault:"https://api.mercadopago.com"`
	AccessToken string `env:"ACCESS_TOKEN"`
}

type Storage struct {
	BaseURL    string `env:"BASE_URL"`
	ServiceKey string `env:"SERVICE_KEY"`
	Bucket     string `env:"BUCKET" envDefault:"receipts"`
}

type Admin struct {
	Password string `env:"PASSWORD"`
}

// Pricing is the single source of truth for priced add-ons. The public
// catalog endpoint and order creation both read the extra-video price from
// here; the value is never duplicated as a literal anywhere else.
type Pricing struct {
	ExtraVideoPriceARS int64 `env:"EXTRA_VIDEO_PRICE_ARS" envDefault:"15000"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
