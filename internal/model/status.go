package model

// StatusResponse represents response for GET /wallet/status
type StatusResponse struct {
	Identity      string        `json:"identity"`
	PlatformMode  string        `json:"platformMode"`
	Chain         string        `json:"chain"`
	Storage       string        `json:"storage"`
	HasWallet     bool          `json:"hasWallet"`
	BackupNeeded  bool          `json:"backupNeeded"`
	Unlocked      bool          `json:"unlocked"`
	Address       string        `json:"address,omitempty"`
	DisplayName   string        `json:"displayName"`
	Conflict      bool          `json:"conflict"`
	Mismatch      *MismatchInfo `json:"mismatch,omitempty"`
	SessionActive bool          `json:"sessionActive"`
}

// MismatchInfo describes a local/backend address divergence and the only
// actions that resolve it.
type MismatchInfo struct {
	Local        string   `json:"local"`
	Registered   string   `json:"registered"`
	Remediations []string `json:"remediations"`
}

// ClearResponse represents response for DELETE /wallet
type ClearResponse struct {
	Removed int `json:"removed"`
}
