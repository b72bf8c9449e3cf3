package domain

// Types for the upstream EV charge-point feed (HERE browse API shape).
// Only the fields ingestion reads are modeled.

type FeedPosition struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type FeedAddress struct {
	Label       string `json:"label"`
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
	State       string `json:"state"`
	County      string `json:"county"`
	City        string `json:"city"`
	District    string `json:"district"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
}

type FeedConnectorType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FeedChargingPoint struct {
	VoltsRange string `json:"voltsRange"`
	AmpsRange  string `json:"ampsRange"`
	Phases     int    `json:"phases"`
}

type FeedConnector struct {
	SupplierName  string            `json:"supplierName"`
	ConnectorType FeedConnectorType `json:"connectorType"`
	FixedCable    bool              `json:"fixedCable"`
	MaxPowerLevel float64           `json:"maxPowerLevel"`
	ChargingPoint FeedChargingPoint `json:"chargingPoint"`
}

type FeedEvseConnector struct {
	TypeID string `json:"typeId"`
}

type FeedEvse struct {
	CpoID         string              `json:"cpoId"`
	CpoEvseEmi3ID string              `json:"cpoEvseEMI3Id"`
	State         string              `json:"state"`
	LastUpdated   string              `json:"lastUpdated"`
	Connectors    []FeedEvseConnector `json:"connectors"`
}

type FeedStation struct {
	Evses []FeedEvse `json:"evses"`
}

type FeedEvAvailability struct {
	Stations []FeedStation `json:"stations"`
}

type FeedEvStation struct {
	TotalNumberOfConnectors int             `json:"totalNumberOfConnectors"`
	Connectors              []FeedConnector `json:"connectors"`
}

type FeedExtended struct {
	EvStation      FeedEvStation      `json:"evStation"`
	EvAvailability FeedEvAvailability `json:"evAvailability"`
}

// FeedItem is one charge-point location as reported by the feed. The item
// id doubles as the location's HereID upsert key.
type FeedItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Address  FeedAddress  `json:"address"`
	Position FeedPosition `json:"position"`
	Extended FeedExtended `json:"extended"`
}

type FeedPage struct {
	Items []FeedItem `json:"items"`
}
