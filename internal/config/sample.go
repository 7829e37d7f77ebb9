package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# geoleaderboard configuration
version: "1.0"

source:
  # http(s) URL, file:// URL or local path of the snapshot
  url: "` + DefaultConfig().Source.URL + `"
  # auto sniffs the payload; otherwise one of none, gzip, zstd, xz, lz4, bzip2
  compression: auto
  # 0 waits forever
  timeout: 0s
  user_agent: geoleaderboard

display:
  # rows released per page
  page_size: 2500
  # default, high-contrast or minimal
  theme: default
  # collation locale for Username and Country sorting
  locale: en
  # base of the username links
  profile_url: profile.html
  no_emoji: false

output:
  # text, json, markdown, csv or xlsx
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false

watch:
  # delay between a file change and the reload
  debounce: 500ms
`
}

// MinimalSampleConfig returns a compact configuration file
func MinimalSampleConfig() string {
	return `version: "1.0"
source:
  url: "` + DefaultConfig().Source.URL + `"
display:
  page_size: 2500
output:
  default_format: text
`
}
