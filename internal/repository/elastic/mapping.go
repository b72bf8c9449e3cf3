package elastic

// locationMapping is the index mapping for location documents. The
// location field carries the geo_point used by distance and polygon
// queries; working_days and charger_types are nested so per-entry
// conditions never match across entries.
const locationMapping = `{
	"mappings": {
		"properties": {
			"location": {"type": "geo_point"},
			"id": {"type": "text"},
			"location_name": {"type": "text"},
			"latitude": {"type": "double"},
			"longitude": {"type": "double"},
			"street": {"type": "text"},
			"district": {"type": "text"},
			"city": {"type": "text"},
			"country": {"type": "text"},
			"postal_code": {"type": "text"},
			"pricing": {"type": "text"},
			"phone_number": {"type": "text"},
			"parking_level": {"type": "text"},
			"station_count": {"type": "integer"},
			"charging_speed": {"type": "keyword"},
			"description": {"type": "text"},
			"is_deleted": {"type": "boolean"},
			"working_days": {
				"type": "nested",
				"properties": {
					"day": {"type": "integer"},
					"open_time": {"type": "date", "format": "HH:mm"},
					"close_time": {"type": "date", "format": "HH:mm"}
				}
			},
			"charger_types": {
				"type": "nested",
				"properties": {
					"type": {"type": "text"},
					"power_output": {"type": "integer"}
				}
			},
			"amenities": {"type": "keyword"}
		}
	}
}`

// Appends charger pairs and moves station_count in one engine-side step.
// station_count starts as the delta on first touch.
const scriptAddChargerTypes = `
if (ctx._source.charger_types == null) {
	ctx._source.charger_types = params.charger_types;
} else {
	ctx._source.charger_types.addAll(params.charger_types);
}
if (ctx._source.station_count == null) {
	ctx._source.station_count = params.number_of_station;
} else {
	ctx._source.station_count += params.number_of_station;
}`

// Removes one stored entry per (type, power_output) pair in
// types_to_remove, then appends the replacement pairs. station_count is
// untouched: the charger still exists, only its ports changed.
const scriptReplaceChargerTypes = `
if (ctx._source.charger_types == null) {
	ctx._source.charger_types = params.charger_types;
} else {
	def types_to_remove = params.types_to_remove;
	for (def type_to_remove : types_to_remove) {
		for (int i = 0; i < ctx._source.charger_types.size(); i++) {
			def charger = ctx._source.charger_types[i];
			if (charger.power_output == type_to_remove.power_output && charger.type == type_to_remove.type) {
				ctx._source.charger_types.remove(i);
				break;
			}
		}
	}
	ctx._source.charger_types.addAll(params.charger_types);
}`

// Removes one stored entry per pair and decrements station_count.
const scriptRemoveChargerTypes = `
if (ctx._source.charger_types != null) {
	def types_to_remove = params.types_to_remove;
	for (def type_to_remove : types_to_remove) {
		for (int i = 0; i < ctx._source.charger_types.size(); i++) {
			def charger = ctx._source.charger_types[i];
			if (charger.power_output == type_to_remove.power_output && charger.type == type_to_remove.type) {
				ctx._source.charger_types.remove(i);
				break;
			}
		}
	}
	ctx._source.station_count -= params.number_of_station;
}`
