package ui

// detailsClosedMsg is sent when the details pager exits
type detailsClosedMsg struct {
	repo string
	err  error
}

// browserOpenedMsg contains the result of handing a URL to the browser
type browserOpenedMsg struct {
	url string
	err error
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct {
	status string
}
