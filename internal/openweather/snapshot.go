package openweather

// Snapshot is a normalized current-weather observation for one city. The JSON
// shape is the flattened subset of the provider response that gets cached.
type Snapshot struct {
	Weather     Conditions  `json:"weather"`
	Temperature Temperature `json:"temperature"`
	Visibility  int         `json:"visibility"`
	Wind        Wind        `json:"wind"`
	Datetime    int64       `json:"datetime"`
	Sys         SunTimes    `json:"sys"`
	Timezone    int         `json:"timezone"`
	Name        string      `json:"name"`
}

type Conditions struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type Temperature struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
}

type Wind struct {
	Speed float64 `json:"speed"`
}

type SunTimes struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}
