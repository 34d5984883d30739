package internal

type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

type RouteViewMode string

const (
	ViewAll         RouteViewMode = "all"
	ViewCurrent     RouteViewMode = "current"
	ViewCurrentNext RouteViewMode = "current-next"
)

const DefaultMaxBoxSize = 4

type CommodityRow struct {
	ID          string `json:"id"`
	Commodity   string `json:"commodity"`
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	Quantity    int    `json:"quantity"`
	MaxBoxSize  int    `json:"maxBoxSize"`
}

type Mission struct {
	ID          string         `json:"id"`
	Payout      string         `json:"payout"`
	Commodities []CommodityRow `json:"commodities"`
}

type ParsedSegment struct {
	Commodity string `json:"commodity"`
	Pickup    string `json:"pickup"`
	Delivery  string `json:"delivery"`
	Quantity  int    `json:"quantity"`
}

type ParsedMission struct {
	Payout   *int            `json:"payout"`
	Segments []ParsedSegment `json:"segments"`
}

type ScanResult struct {
	ID         string         `json:"id"`
	Filename   string         `json:"filename"`
	Text       string         `json:"text"`
	Confidence float64        `json:"confidence"`
	Parsed     *ParsedMission `json:"parsedData"`
	Err        string         `json:"error,omitempty"`
}

type RouteItem struct {
	MissionID  string `json:"missionId"`
	Commodity  string `json:"commodity"`
	Quantity   int    `json:"quantity"`
	MaxBoxSize int    `json:"maxBoxSize"`
}

type RouteStop struct {
	ID       string      `json:"id"`
	Type     StopType    `json:"type"`
	Location string      `json:"location"`
	Items    []RouteItem `json:"items"`
}

type CargoItem struct {
	MissionID string `json:"missionId"`
	Commodity string `json:"commodity"`
	Quantity  int    `json:"quantity"`
}

type CargoGroup struct {
	Color string      `json:"color"`
	Label string      `json:"label"`
	Items []CargoItem `json:"items"`
}

type GridLayout struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

func (g GridLayout) Cells() int {
	return g.Cols * g.Rows
}

type InboxRow struct {
	ID         int    `db:"id"`
	Provider   string `db:"provider"`
	MessageID  string `db:"messageId"`
	Subject    string `db:"subject"`
	Sender     string `db:"sender"`
	ReceivedAt string `db:"receivedAt"`
	Hash       string `db:"hash"`
	Status     string `db:"status"`
	RawRef     string `db:"rawRef"`
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type AliasKind string

const (
	AliasLocation  AliasKind = "location"
	AliasCommodity AliasKind = "commodity"
)

type AliasRecord struct {
	Kind      AliasKind `db:"kind" json:"kind"`
	Alias     string    `db:"alias" json:"alias"`
	Canonical string    `db:"canonical" json:"canonical"`
	Source    string    `db:"source" json:"source"`
}
