package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"filippo.io/age"
)

// Export is the serialized form of a full memory bank dump.
type Export struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Entries    []*Entry  `json:"entries"`
}

// ExportJSON writes the entire bank as indented JSON.
func ExportJSON(store Store, w io.Writer) error {
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("export memories: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export{
		ExportedAt: time.Now().UTC(),
		Count:      len(entries),
		Entries:    entries,
	})
}

// ExportEncrypted writes the bank as age-encrypted JSON protected by a
// passphrase. The output can be recovered with `age -d`.
func ExportEncrypted(store Store, w io.Writer, passphrase string) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("derive export key: %w", err)
	}

	var plain bytes.Buffer
	if err := ExportJSON(store, &plain); err != nil {
		return err
	}

	enc, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("encrypt export: %w", err)
	}
	if _, err := enc.Write(plain.Bytes()); err != nil {
		return fmt.Errorf("encrypt export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize export: %w", err)
	}
	return nil
}

// ImportJSON reads a previous export and adds its entries back into the
// bank. Entries with unknown categories are skipped. Returns how many
// entries were imported.
func ImportJSON(store Store, r io.Reader) (int, error) {
	var exp Export
	if err := json.NewDecoder(r).Decode(&exp); err != nil {
		return 0, fmt.Errorf("decode memory export: %w", err)
	}
	imported := 0
	for _, e := range exp.Entries {
		if !ValidCategory(e.Category) {
			continue
		}
		if _, err := store.Add(e.Category, e.Content, e.Context); err != nil {
			return imported, fmt.Errorf("import memory: %w", err)
		}
		imported++
	}
	return imported, nil
}

// ImportEncrypted decrypts an age-encrypted export with the passphrase
// and imports its entries.
func ImportEncrypted(store Store, r io.Reader, passphrase string) (int, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return 0, fmt.Errorf("derive import key: %w", err)
	}
	dec, err := age.Decrypt(r, identity)
	if err != nil {
		return 0, fmt.Errorf("decrypt export: %w", err)
	}
	return ImportJSON(store, dec)
}
