package directory

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"phonedir/internal"
)

type Normalizer struct {
	aliases     Aliases
	defaultHost string
	log         *slog.Logger
}

func NewNormalizer(aliases Aliases, defaultHost string, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Normalizer{aliases: aliases, defaultHost: strings.TrimSpace(defaultHost), log: log}
}

func (n *Normalizer) Resolve(record map[string]any) internal.Resolution {
	var res internal.Resolution

	res.Identifier, res.IdentifierKey = Lookup(record, n.aliases.Identifier)
	desc, descKey := Lookup(record, n.aliases.Description)
	res.DescriptionKey = descKey
	if desc == "" {
		desc = res.Identifier
	}

	ext, extKey := Lookup(record, n.aliases.Extension)
	if ext != "" {
		res.ExtensionKey = extKey
		res.DialFrom = internal.DialFromExtension
		res.Entry = internal.DirectoryEntry{Name: desc, Telephone: ext}
	} else {
		host, hostKey := Lookup(record, n.aliases.Host)
		res.HostKey = hostKey
		if !strings.Contains(host, ".") {
			host = n.defaultHost
			res.HostDefaulted = true
		}
		res.Host = host
		res.DialFrom = internal.DialFromSIPURI
		telephone := ""
		if res.Identifier != "" {
			telephone = res.Identifier + "@" + host
		}
		res.Entry = internal.DirectoryEntry{Name: desc, Telephone: telephone}
	}

	switch {
	case res.Entry.Name == "":
		res.Dropped = internal.DropNoName
	case res.Entry.Telephone == "":
		res.Dropped = internal.DropNoDialTarget
	}
	return res
}

// Normalize resolves every record, drops the unusable ones and returns the
// survivors in directory order.
func (n *Normalizer) Normalize(records []map[string]any) []internal.DirectoryEntry {
	entries := make([]internal.DirectoryEntry, 0, len(records))
	for i, record := range records {
		res := n.Resolve(record)
		n.logResolution(i, res)
		if !res.Kept() {
			continue
		}
		entries = append(entries, res.Entry)
	}
	SortEntries(entries)
	return entries
}

func (n *Normalizer) logResolution(index int, res internal.Resolution) {
	if !res.Kept() {
		n.log.Debug("record dropped", "index", index, "reason", string(res.Dropped), "identifier_key", res.IdentifierKey)
		return
	}
	attrs := []any{
		"index", index,
		"name", res.Entry.Name,
		"identifier_key", res.IdentifierKey,
		"description_key", res.DescriptionKey,
		"dial_from", string(res.DialFrom),
		"telephone", res.Entry.Telephone,
	}
	if res.DialFrom == internal.DialFromExtension {
		attrs = append(attrs, "extension_key", res.ExtensionKey)
	} else {
		attrs = append(attrs, "host_key", res.HostKey, "host_defaulted", res.HostDefaulted)
	}
	n.log.Debug("record resolved", attrs...)
}

// SortEntries orders by case-insensitive name, then case-insensitive telephone.
func SortEntries(entries []internal.DirectoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return strings.ToLower(entries[i].Telephone) < strings.ToLower(entries[j].Telephone)
	})
}
