package domain

// Default connection parameters for Sophos firewall management APIs.
const (
	DefaultPort = 4444
)

// DeviceTarget identifies one firewall appliance to be audited. It is an
// immutable input built by the caller; the pipeline never persists it.
type DeviceTarget struct {
	Name        string `json:"name"`
	Hostname    string `json:"hostname"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	EnableHTTPS bool   `json:"enable_https"`
	VerifySSL   bool   `json:"verify_ssl"`
}

// DisplayName returns the device name, falling back to the hostname when
// no name was configured.
func (t DeviceTarget) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Hostname
}
