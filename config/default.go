package config

func GetDefault() Config {
	return Config{
		BaseURL:         "http://agilefant.cosc.canterbury.ac.nz:8080/agilefant302/",
		RevRange:        "HEAD",
		ShortHashLength: 7,
		Interactive:     true,
	}
}
