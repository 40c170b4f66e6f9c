package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// ErrValidation is wrapped by every packaging and validation failure
var ErrValidation = errors.New("invalid docx package")

var requiredParts = []string{
	partContentTypes, partRootRels, partDocument, partStyles, partNumbering,
	partCore, partApp, partDocumentRels,
}

// Validate checks an archive: required parts exist, every XML part is well
// formed, relationship ids are unique and contiguous, internal targets
// resolve and content types cover every part
func Validate(data []byte) error {
	entries, err := readEntries(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return validateEntries(entries)
}

func readEntries(data []byte) ([]entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	entries := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		entries = append(entries, entry{f.Name, b})
	}
	return entries, nil
}

func isXMLPart(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels")
}

func validateEntries(entries []entry) error {
	files := make(map[string][]byte, len(entries))
	var errs []error
	for _, e := range entries {
		if _, dup := files[e.name]; dup {
			errs = append(errs, fmt.Errorf("duplicate entry %s", e.name))
		}
		files[e.name] = e.data
	}
	for _, name := range requiredParts {
		if _, ok := files[name]; !ok {
			errs = append(errs, fmt.Errorf("missing required part %s", name))
		}
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !isXMLPart(name) {
			continue
		}
		if err := wellFormed(files[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s is not well formed: %w", name, err))
		}
	}
	for _, name := range names {
		if strings.HasSuffix(name, ".rels") {
			errs = append(errs, checkRelationships(name, files)...)
		}
	}
	if data, ok := files[partContentTypes]; ok {
		errs = append(errs, checkContentTypes(data, names)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return nil
}

func wellFormed(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// relsSource returns the directory that relative targets of a .rels part
// resolve against
func relsSource(name string) (dir, source string) {
	dir, file := path.Split(name)
	dir = strings.TrimSuffix(strings.TrimSuffix(dir, "/"), "_rels")
	source = dir + strings.TrimSuffix(file, ".rels")
	return dir, source
}

func checkRelationships(name string, files map[string][]byte) []error {
	var errs []error
	dir, source := relsSource(name)
	if name != partRootRels {
		if _, ok := files[source]; !ok {
			errs = append(errs, fmt.Errorf("%s describes missing part %s", name, source))
		}
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(files[name], &rels); err != nil {
		return append(errs, fmt.Errorf("%s: %w", name, err))
	}
	seen := make(map[string]bool)
	var numbers []int
	for _, r := range rels.Relationships {
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate relationship id %s", name, r.ID))
		}
		seen[r.ID] = true
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && strings.HasPrefix(r.ID, "rId") {
			numbers = append(numbers, n)
		}
		if r.TargetMode == "External" {
			continue
		}
		target := strings.TrimPrefix(r.Target, "/")
		if !strings.HasPrefix(r.Target, "/") {
			target = path.Join(dir, r.Target)
		}
		if _, ok := files[target]; !ok {
			errs = append(errs, fmt.Errorf("%s: relationship %s targets missing part %s", name, r.ID, target))
		}
	}
	sort.Ints(numbers)
	for i := 1; i < len(numbers); i++ {
		if numbers[i] != numbers[i-1]+1 {
			errs = append(errs, fmt.Errorf("%s: relationship ids are not contiguous", name))
			break
		}
	}
	return errs
}

func checkContentTypes(data []byte, names []string) []error {
	var ct contentTypesXML
	if err := xml.Unmarshal(data, &ct); err != nil {
		return []error{fmt.Errorf("%s: %w", partContentTypes, err)}
	}
	var errs []error
	defaults := make(map[string]string)
	for _, d := range ct.Defaults {
		defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	if defaults["rels"] != ctRels {
		errs = append(errs, fmt.Errorf("%s: missing rels default", partContentTypes))
	}
	if defaults["xml"] != ctXML {
		errs = append(errs, fmt.Errorf("%s: missing xml default", partContentTypes))
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	overrides := make(map[string]string)
	for _, o := range ct.Overrides {
		name := strings.TrimPrefix(o.PartName, "/")
		overrides[name] = o.ContentType
		if !present[name] {
			errs = append(errs, fmt.Errorf("%s: override for missing part %s", partContentTypes, o.PartName))
		}
	}
	for _, name := range names {
		if name == partContentTypes || strings.HasSuffix(name, ".rels") {
			continue
		}
		if _, ok := overrides[name]; ok {
			continue
		}
		ext := strings.ToLower(path.Ext(name))
		if strings.HasSuffix(name, ".xml") || defaults[strings.TrimPrefix(ext, ".")] == "" {
			errs = append(errs, fmt.Errorf("%s: no content type for %s", partContentTypes, name))
		}
	}
	return errs
}
