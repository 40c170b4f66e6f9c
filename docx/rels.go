package docx

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Relationship types
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relFootnotes      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	relEndnotes       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	relComments       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
)

// ErrDuplicatePart is returned when a part name is registered twice
var ErrDuplicatePart = errors.New("duplicate part name")

// Relationship is one entry of a .rels part
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Part is an XML part registered alongside word/document.xml. Name is
// relative to word/.
type Part struct {
	Name        string
	Data        []byte
	ContentType string
	Rels        *RelationshipManager // relationships of the part itself, may be nil
}

// MediaPart is an embedded image. Name is relative to word/.
type MediaPart struct {
	Name string
	Data []byte
	MIME string
}

// mediaStore deduplicates image payloads for the whole package
type mediaStore struct {
	byHash map[[32]byte]int
	parts  []MediaPart
}

func (s *mediaStore) add(data []byte, mime string) string {
	sum := blake2b.Sum256(data)
	if i, ok := s.byHash[sum]; ok {
		return s.parts[i].Name
	}
	ext, mime := imageType(mime)
	name := fmt.Sprintf("media/image%d.%s", len(s.parts)+1, ext)
	s.byHash[sum] = len(s.parts)
	s.parts = append(s.parts, MediaPart{Name: name, Data: data, MIME: mime})
	return name
}

// RelationshipManager allocates relationship ids for one part. The manager
// of word/document.xml starts at rId3; rId1 and rId2 are the styles and
// numbering parts. Managers created with Sub start at rId1 and share the
// media store of their parent.
type RelationshipManager struct {
	next       int
	rels       []Relationship
	media      *mediaStore
	images     map[string]string // media name -> rid
	hyperlinks map[string]string // url -> rid
	parts      []Part
	names      map[string]bool
}

// NewRelationshipManager creates the manager of the main document part
func NewRelationshipManager() *RelationshipManager {
	m := newManager(&mediaStore{byHash: make(map[[32]byte]int)}, 3)
	m.names["styles.xml"] = true
	m.names["numbering.xml"] = true
	return m
}

func newManager(media *mediaStore, first int) *RelationshipManager {
	return &RelationshipManager{
		next:       first,
		media:      media,
		images:     make(map[string]string),
		hyperlinks: make(map[string]string),
		names:      make(map[string]bool),
	}
}

// Sub creates the manager for a header, footer, notes or comments part
func (m *RelationshipManager) Sub() *RelationshipManager {
	return newManager(m.media, 1)
}

func (m *RelationshipManager) allocate() string {
	id := fmt.Sprintf("rId%d", m.next)
	m.next++
	return id
}

// AddImage stores an image and returns its relationship id and target.
// Identical bytes share one media part and, within a part, one id.
func (m *RelationshipManager) AddImage(data []byte, mime string) (rid, target string) {
	target = m.media.add(data, mime)
	if rid, ok := m.images[target]; ok {
		return rid, target
	}
	rid = m.allocate()
	m.images[target] = rid
	m.rels = append(m.rels, Relationship{ID: rid, Type: relImage, Target: target})
	return rid, target
}

// AddHyperlink returns the relationship id of an external link
func (m *RelationshipManager) AddHyperlink(url string) string {
	if rid, ok := m.hyperlinks[url]; ok {
		return rid
	}
	rid := m.allocate()
	m.hyperlinks[url] = rid
	m.rels = append(m.rels, Relationship{ID: rid, Type: relHyperlink, Target: url, External: true})
	return rid
}

// RegisterPart adds a part next to the main document and returns its
// relationship id
func (m *RelationshipManager) RegisterPart(p Part, relType string) (string, error) {
	if m.names[p.Name] {
		return "", fmt.Errorf("%w: %s", ErrDuplicatePart, p.Name)
	}
	m.names[p.Name] = true
	rid := m.allocate()
	m.parts = append(m.parts, p)
	m.rels = append(m.rels, Relationship{ID: rid, Type: relType, Target: p.Name})
	return rid, nil
}

// Relationships returns the relationships in allocation order
func (m *RelationshipManager) Relationships() []Relationship {
	return append([]Relationship(nil), m.rels...)
}

// Len returns the number of relationships
func (m *RelationshipManager) Len() int { return len(m.rels) }

// Parts returns the registered parts sorted by name
func (m *RelationshipManager) Parts() []Part {
	out := append([]Part(nil), m.parts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Media returns every stored image sorted by name
func (m *RelationshipManager) Media() []MediaPart {
	out := append([]MediaPart(nil), m.media.parts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// imageType maps a MIME type to a file extension and the content type
// written to the package. Unknown types are stored as PNG.
func imageType(mime string) (ext, contentType string) {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return "jpeg", "image/jpeg"
	case "image/gif":
		return "gif", "image/gif"
	case "image/bmp":
		return "bmp", "image/bmp"
	case "image/tiff":
		return "tiff", "image/tiff"
	}
	return "png", "image/png"
}
