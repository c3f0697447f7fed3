package quote

// fundEstimate is the payload inside the fundgz JSONP wrapper.
// Numeric fields arrive as strings and are parsed by the client.
type fundEstimate struct {
	FundCode     string `json:"fundcode"`
	Name         string `json:"name"`
	NetValue     string `json:"dwjz"`  // last published unit NAV
	Estimate     string `json:"gsz"`   // intraday estimated NAV
	EstimateRate string `json:"gszzl"` // estimated change percent
	Time         string `json:"gztime"`
}
