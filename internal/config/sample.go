package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# Nutripedia configuration
version: "1.0"

# Where the dataset and analyses documents live.
# base may be a directory or an http(s) URL; dataset and analyses are
# resolved against it unless they are absolute.
data:
  base: "."
  dataset: "analyses/food_data.json"
  analyses: "analyses/summary_analyses.json"
  fetch_timeout: 0s   # 0 waits as long as the fetch takes
  watch: false        # reload when local files change

# Catalogue table
view:
  columns:
    - key: "food"
      label: "Food"
    - key: "Caloric Value"
      label: "Calories"
    - key: "Fat"
      label: "Fat (g)"
    - key: "Protein"
      label: "Protein (g)"
    - key: "Carbohydrates"
      label: "Carbs (g)"
    - key: "Nutrition Density"
      label: "Density"
  default_sort: ""          # column key; empty keeps dataset order
  default_direction: "desc" # asc|desc; applies to default_sort
  show_summary: true

# Output
output:
  default_format: "text"    # text|json|csv|markdown|xlsx
  color_mode: "auto"        # auto|always|never
  verbose: false
  timestamp_format: "2006-01-02 15:04:05"
  emoji: true

# HTTP API (nutripedia serve)
server:
  address: "localhost:8080"
  mode: "release"           # debug|release|test
  cors_origins:
    - "*"
`
}

// MinimalSampleConfig returns a configuration with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
data:
  base: "."
output:
  default_format: "text"
`
}
