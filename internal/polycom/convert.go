package polycom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"phonedir/internal"
	"phonedir/internal/util"
)

const declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

type node struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
	Nodes   []node `xml:",any"`
}

// ParseCiscoDirectory collects every DirectoryEntry element at any depth.
// Namespaces are ignored; Name and Telephone are read from direct children.
// Documents declaring a legacy encoding such as ISO-8859-1 are transcoded.
func ParseCiscoDirectory(r io.Reader) ([]internal.DirectoryEntry, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	root, err := decodeRoot(dec)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var entries []internal.DirectoryEntry
	var walk func(n node)
	walk = func(n node) {
		if n.XMLName.Local == "DirectoryEntry" {
			entries = append(entries, internal.DirectoryEntry{
				Name:      childText(n, "Name"),
				Telephone: childText(n, "Telephone"),
			})
		}
		for _, child := range n.Nodes {
			walk(child)
		}
	}
	walk(root)
	return entries, nil
}

// decodeRoot reads exactly one root element. Only whitespace, comments,
// processing instructions and directives may surround it.
func decodeRoot(dec *xml.Decoder) (node, error) {
	var root node
	found := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !found {
				return node{}, errors.New("no root element")
			}
			return root, nil
		}
		if err != nil {
			return node{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if found {
				return node{}, fmt.Errorf("junk after document element: <%s>", t.Name.Local)
			}
			if err := dec.DecodeElement(&root, &t); err != nil {
				return node{}, err
			}
			found = true
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				if found {
					return node{}, errors.New("junk after document element: text")
				}
				return node{}, errors.New("text before document element")
			}
		}
	}
}

func childText(n node, local string) string {
	for _, child := range n.Nodes {
		if child.XMLName.Local == local {
			return strings.TrimSpace(child.Text)
		}
	}
	return ""
}

// SplitName puts the text before the first whitespace run in ln and the rest in fn.
func SplitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func ToItems(entries []internal.DirectoryEntry) []internal.PolycomItem {
	items := make([]internal.PolycomItem, 0, len(entries))
	for _, e := range entries {
		contact := strings.TrimSpace(e.Telephone)
		if contact == "" {
			continue
		}
		ln, fn := SplitName(e.Name)
		items = append(items, internal.PolycomItem{LastName: ln, FirstName: fn, Contact: contact})
	}
	return items
}

type directoryXML struct {
	XMLName  xml.Name    `xml:"directory"`
	ItemList itemListXML `xml:"item_list"`
}

type itemListXML struct {
	Items []itemXML `xml:"item"`
}

type itemXML struct {
	LastName  string `xml:"ln"`
	FirstName string `xml:"fn"`
	Contact   string `xml:"ct"`
}

func BuildPolycomXML(items []internal.PolycomItem) ([]byte, error) {
	var doc directoryXML
	doc.ItemList.Items = make([]itemXML, 0, len(items))
	for _, it := range items {
		doc.ItemList.Items = append(doc.ItemList.Items, itemXML(it))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(declaration)+len(body)+1)
	out = append(out, declaration...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// ConvertFile reads a Cisco directory from inPath and writes the Polycom
// directory to outPath, returning the number of items written.
func ConvertFile(inPath, outPath string) (int, error) {
	f, err := os.Open(inPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, &InputNotFoundError{Path: inPath}
		}
		return 0, err
	}
	defer f.Close()

	entries, err := ParseCiscoDirectory(f)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = inPath
		}
		return 0, err
	}

	items := ToItems(entries)
	blob, err := BuildPolycomXML(items)
	if err != nil {
		return 0, fmt.Errorf("build polycom directory: %w", err)
	}
	if err := util.WriteFileAtomic(outPath, blob, 0o644); err != nil {
		return 0, err
	}
	return len(items), nil
}
