package checkapp

import "encoding/json"

type status struct {
	Status string `json:"status"`
	Models int    `json:"models"`
}

// Encode implements the encoder interface.
func (s status) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

type liveInfo struct {
	Status     string `json:"status"`
	Build      string `json:"build"`
	Host       string `json:"host"`
	Name       string `json:"name,omitempty"`
	PodIP      string `json:"podIP,omitempty"`
	Node       string `json:"node,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
	GOMAXPROCS int    `json:"GOMAXPROCS"`
}

// Encode implements the encoder interface.
func (l liveInfo) Encode() ([]byte, string, error) {
	data, err := json.Marshal(l)
	return data, "application/json", err
}
