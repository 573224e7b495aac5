package constants

const (

	// EnvAndroidDNSMode is cleared from the environment before interface
	// configuration. A parent service process sets it to select a DNS
	// resolution mode that is valid only for that process itself; a clat
	// daemon inheriting it resolves names through the wrong path.
	EnvAndroidDNSMode = "ANDROID_DNS_MODE"
)
