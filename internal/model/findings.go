package model

// DomainCount is one row of the top-domains section: a lower-cased URL host
// and the number of url records that referenced it.
type DomainCount struct {
	Domain string
	Count  int
}

// SteamIDSighting records the first occurrence of a distinct SteamID in
// the sorted clean dataset.
type SteamIDSighting struct {
	SteamID   string
	FirstSeen string
	Offset    string
}

// ChatSample is one sampled chat line for the findings report.
type ChatSample struct {
	Timestamp string
	Message   string
	Offset    string
}

// FindingsSummary is the aggregated findings report content: top URL
// domains by descending count, distinct SteamIDs with their first sighting,
// and up to 100 sampled chat lines.
type FindingsSummary struct {
	// TopDomains holds at most 25 domains ordered by descending count.
	// Domains with equal counts keep their first-seen order.
	TopDomains []DomainCount

	// SteamIDs holds one sighting per distinct SteamID, sorted by
	// (first seen, steamid).
	SteamIDs []SteamIDSighting

	// ChatSamples holds up to 100 chat lines sorted by (timestamp, offset).
	ChatSamples []ChatSample
}

// MaxTopDomains caps the top-domains section of the findings report.
const MaxTopDomains = 25

// MaxChatSamples caps the sampled chat lines in the findings report.
const MaxChatSamples = 100
