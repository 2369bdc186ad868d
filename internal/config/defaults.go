package config

import (
	"time"

	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Default returns a configuration that searches OCC and Indeed for the
// standard infrastructure keywords.
func Default() *Config {
	return &Config{
		General: General{
			OutputFilename: "jobs.csv",
			FinalColumns:   append([]string(nil), models.DefaultSchema...),
			UserAgent:      defaultUserAgent,
			LogLevel:       "info",
		},
		Platforms: Platforms{
			OCC: Platform{
				Enabled:        true,
				BaseURL:        "https://www.occ.com.mx/empleos/de-{keyword}/tipo-home-office-remoto/?sort=2",
				TimeParamName:  "tm",
				MaxPages:       5,
				PageIncrement:  1,
				RequestTimeout: 30 * time.Second,
				MaxRetries:     3,
				TimeWindow: filter.WindowPolicy{
					Default:    "14",
					Thresholds: []filter.Threshold{{MaxAgeDays: 2, Value: "3"}, {MaxAgeDays: 7, Value: "7"}},
				},
			},
			Indeed: Platform{
				Enabled:        true,
				BaseURL:        "https://mx.indeed.com/jobs?q={keyword}&l=Remote&sc=0kf%3Aattr%28DSQF7%29%3B&sort=date",
				TimeParamName:  "fromage",
				MaxPages:       3,
				PageIncrement:  10,
				RequestTimeout: 30 * time.Second,
				TimeWindow: filter.WindowPolicy{
					Default: "14",
					Thresholds: []filter.Threshold{
						{MaxAgeDays: 1, Value: "1"}, {MaxAgeDays: 3, Value: "3"}, {MaxAgeDays: 7, Value: "7"},
					},
				},
			},
			LinkedIn: Platform{
				Enabled:        false,
				BaseURL:        "https://www.linkedin.com/jobs/search/?keywords={keyword}&f_WT=2",
				TimeParamName:  "f_TPR",
				MaxPages:       2,
				PageIncrement:  25,
				RequestTimeout: 30 * time.Second,
				TimeWindow: filter.WindowPolicy{
					Default:    "r604800",
					Thresholds: []filter.Threshold{{MaxAgeDays: 1, Value: "r86400"}},
				},
			},
		},
		Timing: Timing{
			DelayBetweenKeywords: 10 * time.Second,
			DelayBetweenPages:    5 * time.Second,
			RetryDelay:           10 * time.Second,
		},
		SearchFilters: SearchFilters{
			SearchKeywords: append([]string(nil), filter.DefaultKeywords...),
			ExcludeTitle:   append([]string(nil), filter.DefaultExclude...),
			IncludeTitle:   append([]string(nil), filter.DefaultInclude...),
		},
		Browser: Browser{
			Headless:    true,
			CookiesPath: ".cookies",
			Timeout:     30 * time.Second,
			ScrollSteps: 4,
			MouseMoves:  3,
			MinPause:    300 * time.Millisecond,
			MaxPause:    900 * time.Millisecond,
		},
		Lock: Lock{
			Backend: "file",
			TTL:     2 * time.Hour,
			Key:     "jobradar:lock",
		},
		Telegram: Telegram{
			MaxJobs: 20,
		},
		Server: Server{
			Addr:       ":8080",
			ReportPath: "logs/last-run.json",
		},
	}
}
