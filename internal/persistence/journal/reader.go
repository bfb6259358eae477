package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"molopl.dev/addons/internal/protocol"
)

// ListFiles returns the journal files of dir written with prefix, oldest first.
func ListFiles(dir, prefix string) ([]string, error) {
	if prefix == "" {
		prefix = "events"
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix+"-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// ReadFile decodes every tick entry of one journal file and passes it to fn.
// Reading stops at the first invalid line or the first error returned by fn.
func ReadFile(path string, fn func(protocol.TickEntry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		entry, err := protocol.ParseEntry(sc.Bytes())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadDir reads every journal file of dir in order.
func ReadDir(dir, prefix string, fn func(protocol.TickEntry) error) error {
	files, err := ListFiles(dir, prefix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no journal files found in %s", dir)
	}
	for _, path := range files {
		if err := ReadFile(path, fn); err != nil {
			return err
		}
	}
	return nil
}
