package models

import "time"

// SettingRow est une ligne brute de la table settings (clé → valeur JSON)
type SettingRow struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
