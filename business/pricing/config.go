package pricing

type Config struct {
	// added to variable cost to form the price floor; 0 is breakeven
	MinContributionMargin float64

	DefaultDays int
	MaxDays     int

	// room types generated in parallel
	Concurrency int

	Currency string
}

const (
	defaultMinContributionMargin = 0.0
	defaultDays                  = 30
	defaultMaxDays               = 365
	defaultConcurrency           = 4
	defaultCurrency              = "USD"

	minElasticityPrices = 2
	maxElasticityPrices = 20
)

func DefaultConfig() Config {
	return Config{
		MinContributionMargin: defaultMinContributionMargin,
		DefaultDays:           defaultDays,
		MaxDays:               defaultMaxDays,
		Concurrency:           defaultConcurrency,
		Currency:              defaultCurrency,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultDays <= 0 {
		c.DefaultDays = d.DefaultDays
	}
	if c.MaxDays <= 0 {
		c.MaxDays = d.MaxDays
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.Currency == "" {
		c.Currency = d.Currency
	}
	return c
}
