package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/pdf2docx/core"
	"github.com/tsawler/pdf2docx/logging"
)

var (
	// ErrNotPDF is returned when the input lacks a %PDF- header.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrEncrypted is returned for encrypted input opened without a password.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrBadPassword is returned when the supplied password does not decrypt
	// the document.
	ErrBadPassword = errors.New("incorrect password")

	// ErrMalformed is returned when the object model cannot be read.
	ErrMalformed = errors.New("malformed PDF")

	// ErrPageRange is returned for page indexes outside the document.
	ErrPageRange = errors.New("page index out of range")
)

// headerWindow is how far into the file the %PDF- marker may appear.
const headerWindow = 1024

func init() {
	// keep pdfcpu from creating a configuration directory on first use
	pdfmodel.ConfigPath = "disable"
}

// Document is an opened PDF. It is not safe for concurrent use; convert
// independent documents in parallel instead.
type Document struct {
	ctx     *pdfmodel.Context
	arena   *core.Arena
	catalog core.Dict
	pages   []pageNode
	byRef   map[core.Ref]int

	encrypted bool

	namedDests map[string]core.Object
}

// OpenBytes opens a PDF held in memory
func OpenBytes(data []byte, password string) (*Document, error) {
	return Open(bytes.NewReader(data), password)
}

// Open reads a PDF. Encryption is decided from the parsed trailer: a
// document whose user password is empty opens without one, any other needs
// password, which is tried as user and owner password.
func Open(rs io.ReadSeeker, password string) (*Document, error) {
	head := make([]byte, headerWindow)
	n, _ := io.ReadFull(rs, head)
	if !bytes.Contains(head[:n], []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	conf.UserPW = password
	conf.OwnerPW = password

	ctx, err := readContext(rs, conf)
	if err != nil {
		if errors.Is(err, pdfcpu.ErrWrongPassword) {
			if password == "" {
				return nil, ErrEncrypted
			}
			return nil, fmt.Errorf("%w: %v", ErrBadPassword, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	d := &Document{ctx: ctx, byRef: make(map[core.Ref]int), encrypted: ctx.XRefTable.Encrypt != nil}
	d.arena = core.NewArena(d.load)

	if ctx.Root == nil {
		return nil, fmt.Errorf("%w: missing document catalog", ErrMalformed)
	}
	catalog, ok := core.ResolveDict(d.arena, convert(*ctx.Root))
	if !ok {
		return nil, fmt.Errorf("%w: catalog is not a dictionary", ErrMalformed)
	}
	d.catalog = catalog

	if err := d.buildPageList(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	logging.Logger().Debug("opened document",
		"pages", len(d.pages),
		"encrypted", d.encrypted)
	return d, nil
}

// readContext guards against panics inside the parser on hostile input.
func readContext(rs io.ReadSeeker, conf *pdfmodel.Configuration) (ctx *pdfmodel.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return api.ReadContext(rs, conf)
}

// load fetches one object through pdfcpu for the arena
func (d *Document) load(ref core.Ref) (core.Object, error) {
	ir := types.IndirectRef{
		ObjectNumber:     types.Integer(ref.Num),
		GenerationNumber: types.Integer(ref.Gen),
	}
	obj, err := d.ctx.Dereference(ir)
	if err != nil {
		return nil, err
	}
	return convert(obj), nil
}

// Encrypted reports whether the file carries an encryption dictionary
func (d *Document) Encrypted() bool {
	return d.encrypted
}

// Resolver returns the arena that resolves references of this document
func (d *Document) Resolver() core.Resolver {
	return d.arena
}

// Catalog returns the document catalog
func (d *Document) Catalog() core.Dict {
	return d.catalog
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Tagged reports whether the document declares itself a tagged PDF
func (d *Document) Tagged() bool {
	if mark, ok := core.ResolveDict(d.arena, d.catalog.Get("MarkInfo")); ok {
		if marked, _ := mark.Bool("Marked"); marked {
			return true
		}
	}
	return d.catalog.Has("StructTreeRoot")
}
