package internal

type DirectoryEntry struct {
	Name      string
	Telephone string
}

type PolycomItem struct {
	LastName  string
	FirstName string
	Contact   string
}

type DropReason string

type DialSource string

const (
	DropNone         DropReason = ""
	DropNoName       DropReason = "no_name"
	DropNoDialTarget DropReason = "no_dial_target"

	DialFromExtension DialSource = "extension"
	DialFromSIPURI    DialSource = "sip_uri"
)

// Resolution records how one raw account record was mapped to an entry.
type Resolution struct {
	Entry          DirectoryEntry
	Identifier     string
	IdentifierKey  string
	DescriptionKey string
	ExtensionKey   string
	HostKey        string
	Host           string
	HostDefaulted  bool
	DialFrom       DialSource
	Dropped        DropReason
}

func (r Resolution) Kept() bool {
	return r.Dropped == DropNone
}
