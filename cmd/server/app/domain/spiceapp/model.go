package spiceapp

import (
	"encoding/json"

	"github.com/najmahf/spicelink/sdk/tools/catalog"
)

type appSpice struct {
	Name        string `json:"name"`
	Scientific  string `json:"scientific,omitempty"`
	English     string `json:"english,omitempty"`
	Description string `json:"description"`
}

// Encode implements the encoder interface.
func (s appSpice) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

type appSpices struct {
	Spices []appSpice `json:"spices"`
}

// Encode implements the encoder interface.
func (s appSpices) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

func toAppSpice(info catalog.Info) appSpice {
	return appSpice{
		Name:        info.Name,
		Scientific:  info.Scientific,
		English:     info.English,
		Description: info.Description,
	}
}

func toAppSpices(infos []catalog.Info) appSpices {
	spices := make([]appSpice, len(infos))
	for i, info := range infos {
		spices[i] = toAppSpice(info)
	}

	return appSpices{Spices: spices}
}

type appModel struct {
	Name        string  `json:"name"`
	ImageSize   int     `json:"imageSize"`
	Description string  `json:"description,omitempty"`
	Accuracy    float64 `json:"accuracy,omitempty"`
	Available   bool    `json:"available"`
	Loaded      bool    `json:"loaded"`
}

type appModels struct {
	Models []appModel `json:"models"`
}

// Encode implements the encoder interface.
func (m appModels) Encode() ([]byte, string, error) {
	data, err := json.Marshal(m)
	return data, "application/json", err
}
