package config

import "strings"

// DefaultNullTokens are the cell texts read as missing by default: the usual
// not-available markers written by statistics packages and spreadsheets.
var DefaultNullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// DefaultConfig returns the configuration for the SEDA 4.1 school pool
// outcomes and covariates joined with the NCES 2017-18 characteristics and
// poverty files.
func DefaultConfig() *Config {
	return &Config{
		Sources: []SourceConfig{
			{
				Name:    SourceOutcomes,
				File:    "seda_school_pool_cs_4.1.csv",
				Columns: []string{"sedasch", "cs_mn_avg_ol"},
				Rename: map[string]string{
					"sedasch":      "school_id",
					"cs_mn_avg_ol": "avg_score",
				},
			},
			{
				Name: SourceCharacteristics,
				File: "Public_School_Characteristics_2017-18.csv",
				Columns: []string{
					"NCESSCH", "GSLO", "GSHI", "VIRTUAL", "TOTAL", "STUTERATIO",
					"STITLEI", "TOTMENROL", "TOTFENROL",
				},
				Rename: map[string]string{
					"ncessch":    "school_id",
					"gslo":       "grade_low",
					"gshi":       "grade_high",
					"virtual":    "is_virtual",
					"total":      "total_enrollment",
					"stuteratio": "student_teacher_ratio",
					"stitlei":    "title_i_status",
					"totmenrol":  "male_enrollment",
					"totfenrol":  "female_enrollment",
				},
			},
			{
				Name: SourceCovariates,
				File: "seda_cov_school_pool_4.1.csv",
				Columns: []string{
					"sedasch", "stateabb", "type", "level", "charter", "magnet",
					"urbanicity", "locale", "totenrl", "perwht", "pernam", "perasn",
					"perhsp", "perblk", "perfl", "perrl", "gifted_flag", "lep_flag",
					"sped_flag", "avgrdall",
				},
				Rename: map[string]string{
					"sedasch":  "school_id",
					"stateabb": "state",
					"type":     "school_type",
					"level":    "school_level",
					"charter":  "is_charter",
					"magnet":   "is_magnet",
					"totenrl":  "total_enrollment_cov",
					"perwht":   "pct_white",
					"pernam":   "pct_native",
					"perasn":   "pct_asian",
					"perhsp":   "pct_hispanic",
					"perblk":   "pct_black",
					"perfl":    "pct_freelunch",
					"perrl":    "pct_reducedlunch",
					"avgrdall": "avg_grade_all",
				},
			},
			{
				Name:    SourcePoverty,
				File:    "Poverty_Data_2017-18.csv",
				Columns: []string{"NCESSCH", "IPR_EST"},
				Rename: map[string]string{
					"ncessch": "school_id",
					"ipr_est": "poverty_rate_estimate",
				},
			},
		},
		Join: JoinConfig{Key: "school_id"},
		Filters: FiltersConfig{
			NullTokens:    append([]string(nil), DefaultNullTokens...),
			GradeColumns:  []string{"grade_low", "grade_high"},
			GradeSentinel: "N",
			Exclusions: []ExclusionRule{
				{Column: "school_type", Values: []string{"Other/Alt School", "Vocational School"}},
				{Column: "school_level", Values: []string{"Other"}},
				{Column: "is_charter", Values: []string{"1"}},
				{Column: "is_magnet", Values: []string{"1"}},
				{Column: "is_virtual", Values: []string{"A virtual school", "Missing"}},
			},
			SentinelStrings: []string{"Missing"},
			LowerPercentile: 0.05,
			UpperPercentile: 0.95,
		},
		Features: FeaturesConfig{
			Male:     "male_enrollment",
			Female:   "female_enrollment",
			Native:   "pct_native",
			Hispanic: "pct_hispanic",
			Black:    "pct_black",
			White:    "pct_white",
			Asian:    "pct_asian",
		},
		Output: OutputConfig{
			Path:      "seda_plus.csv",
			Delimiter: ",",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
