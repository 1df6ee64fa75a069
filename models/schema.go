package models

// Persisted collections. The store enforces no schema; CollectionSchema is
// advisory documentation served by the API.
const (
	CollectionTrailers   = "trailer_master"
	CollectionUsers      = "user_master"
	CollectionMoves      = "moves"
	CollectionTempChecks = "temperature_checks"
	CollectionLocations  = "locations"
)

func CollectionSchema() map[string]map[string]string {
	return map[string]map[string]string{
		CollectionTrailers: {
			"id":           "String",
			"year":         "Number",
			"length":       "Number",
			"manufacturer": "String",
			"roll_up_door": "Boolean",
			"reefer":       "Boolean",
			"zones":        "Number",
		},
		CollectionUsers: {
			"id":          "String",
			"name":        "String",
			"email":       "String",
			"role":        "String",
			"permissions": "Array",
		},
		CollectionMoves: {
			"id":            "String",
			"trailer_id":    "String",
			"from_wh_yard":  "String",
			"from_door":     "String",
			"to_wh_yard":    "String",
			"to_door":       "String",
			"timestamp":     "Timestamp",
			"timestamp_EST": "Timestamp",
			"created_at":    "Timestamp",
			"picked_up_at":  "Timestamp",
			"completed_at":  "Timestamp",
			"user_id":       "String",
			"email":         "String",
			"status":        "String",
		},
		CollectionTempChecks: {
			"id":         "String",
			"trailer_id": "String",
			"clr_temp":   "Number",
			"fzr_temp":   "Number",
			"timestamp":  "Timestamp",
			"user_id":    "String",
			"email":      "String",
		},
		"inbound_pos": {
			"id":         "String",
			"po_numbers": "String",
			"trailer_id": "String",
			"status":     "String",
			"timestamp":  "Timestamp",
		},
		"load_submission": {
			"id":         "String",
			"user_id":    "String",
			"trailer_id": "String",
			"from_wh":    "String",
			"from_door":  "String",
		},
	}
}
