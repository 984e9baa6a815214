package daicho

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/edwinsyarief/daicho/codec"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the stream compression applied around the encoded
// snapshot document.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// SnapshotOptions configures Save and Load. The zero value means the default
// codec and no compression. Save and Load must be called with matching
// options; the stream does not describe itself.
type SnapshotOptions struct {
	// Codec names the document codec, resolved via codec.ByName.
	// Empty means codec.Default.
	Codec string
	// Compression wraps the stream in the chosen compressor.
	Compression Compression
}

// The wire layout preserves the arena verbatim: the full entry sequence
// (free entries with the generation they will stamp next and their free-list
// link; occupied entries with their generation and the naked record), the
// occupied count and the free-list head, plus every pool's full contents.
// Pool refs and pools are keyed by registered component name so the snapshot
// survives a different registration order. Presence bitmaps are a cache and
// are rebuilt on load.

type listSnapshot[P any] struct {
	Entries  []entrySnapshot[P]         `json:"entries"`
	Length   int                        `json:"length"`
	NextFree *uint32                    `json:"next_free"`
	Pools    map[string]json.RawMessage `json:"pools,omitempty"`
}

type entrySnapshot[P any] struct {
	Free     *freeSnapshot        `json:"free,omitempty"`
	Occupied *occupiedSnapshot[P] `json:"occupied,omitempty"`
}

type freeSnapshot struct {
	NextGeneration uint32  `json:"next_generation"`
	NextFree       *uint32 `json:"next_free"`
}

type occupiedSnapshot[P any] struct {
	Generation uint32            `json:"generation"`
	Props      P                 `json:"props"`
	Refs       map[string]uint32 `json:"refs,omitempty"`
}

type poolSnapshot struct {
	Entries  []poolEntrySnapshot `json:"entries"`
	FreeHead *uint32             `json:"free_head"`
	Length   int                 `json:"length"`
}

type poolEntrySnapshot struct {
	Value json.RawMessage `json:"value,omitempty"`
	Next  *uint32         `json:"next,omitempty"`
}

func indexToPtr(i uint32) *uint32 {
	if i == noIndex {
		return nil
	}
	return &i
}

func ptrToIndex(p *uint32) uint32 {
	if p == nil {
		return noIndex
	}
	return *p
}

func resolveCodec(name string) (codec.Codec, error) {
	if name == "" {
		return codec.Default, nil
	}
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("daicho: unknown codec %q", name)
	}
	return c, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func wrapWriter(w io.Writer, comp Compression) (io.WriteCloser, error) {
	switch comp {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("daicho: unknown compression %d", comp)
	}
}

func wrapReader(r io.Reader, comp Compression) (io.Reader, func(), error) {
	switch comp {
	case CompressionNone:
		return r, func() {}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("daicho: unknown compression %d", comp)
	}
}

// Save writes the List's full storage state to w. Round-tripping through
// Load preserves handle resolution exactly: live handles resolve to the
// same records and payloads, stale handles stay stale, and the next Push
// reuses the same slot the original would have reused.
func (l *List[P]) Save(w io.Writer, opts SnapshotOptions) error {
	c, err := resolveCodec(opts.Codec)
	if err != nil {
		return err
	}

	snap := listSnapshot[P]{
		Entries:  make([]entrySnapshot[P], len(l.arena.entries)),
		Length:   l.arena.length,
		NextFree: indexToPtr(l.arena.freeHead),
	}
	for i := range l.arena.entries {
		e := &l.arena.entries[i]
		if !e.occupied {
			snap.Entries[i].Free = &freeSnapshot{
				NextGeneration: e.generation,
				NextFree:       indexToPtr(e.next),
			}
			continue
		}
		occ := &occupiedSnapshot[P]{
			Generation: e.generation,
			Props:      e.value.Props,
		}
		e.value.eachActive(func(id ComponentID, poolHandle uint32) {
			if occ.Refs == nil {
				occ.Refs = make(map[string]uint32)
			}
			occ.Refs[ComponentName(id)] = poolHandle
		})
		snap.Entries[i].Occupied = occ
	}

	l.pools.eachID(func(id ComponentID) {
		if err != nil {
			return
		}
		var ps poolSnapshot
		ps, err = l.pools.pools[id].encode(c)
		if err != nil {
			err = fmt.Errorf("encode pool %s: %w", ComponentName(id), err)
			return
		}
		var raw []byte
		raw, err = c.Marshal(ps)
		if err != nil {
			err = fmt.Errorf("encode pool %s: %w", ComponentName(id), err)
			return
		}
		if snap.Pools == nil {
			snap.Pools = make(map[string]json.RawMessage)
		}
		snap.Pools[ComponentName(id)] = raw
	})
	if err != nil {
		return err
	}

	payload, err := c.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	wc, err := wrapWriter(w, opts.Compression)
	if err != nil {
		return err
	}
	if _, err := wc.Write(payload); err != nil {
		wc.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save into a fresh List. Every component
// type named in the snapshot must already be registered; presence bitmaps
// are rebuilt from the decoded records. opts must match the ones used by
// Save.
func Load[P any](r io.Reader, opts SnapshotOptions) (*List[P], error) {
	c, err := resolveCodec(opts.Codec)
	if err != nil {
		return nil, err
	}
	rr, done, err := wrapReader(r, opts.Compression)
	if err != nil {
		return nil, err
	}
	defer done()

	data, err := io.ReadAll(rr)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap listSnapshot[P]
	if err := c.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	l := &List[P]{
		arena: &Arena[Record[P]]{
			entries:  make([]slot[Record[P]], len(snap.Entries)),
			freeHead: ptrToIndex(snap.NextFree),
			length:   snap.Length,
		},
		pools: &poolSet{},
	}

	occupied := 0
	for i, es := range snap.Entries {
		e := &l.arena.entries[i]
		switch {
		case es.Occupied != nil:
			rec := Record[P]{Props: es.Occupied.Props, pools: l.pools}
			for name, ph := range es.Occupied.Refs {
				id, ok := idForName(name)
				if !ok {
					return nil, fmt.Errorf("daicho: snapshot references unregistered component type %q", name)
				}
				rec.storeRef(id, ph)
			}
			e.value = rec
			e.generation = es.Occupied.Generation
			e.next = noIndex
			e.occupied = true
			occupied++
		case es.Free != nil:
			e.generation = es.Free.NextGeneration
			e.next = ptrToIndex(es.Free.NextFree)
		default:
			return nil, fmt.Errorf("daicho: snapshot entry %d is neither free nor occupied", i)
		}
	}
	if occupied != snap.Length {
		return nil, fmt.Errorf("daicho: snapshot length %d does not match %d occupied entries", snap.Length, occupied)
	}

	for name, raw := range snap.Pools {
		id, ok := idForName(name)
		if !ok {
			return nil, fmt.Errorf("daicho: snapshot references unregistered component type %q", name)
		}
		var ps poolSnapshot
		if err := c.Unmarshal(raw, &ps); err != nil {
			return nil, fmt.Errorf("decode pool %s: %w", name, err)
		}
		if err := l.pools.pool(id).decode(ps, c); err != nil {
			return nil, fmt.Errorf("decode pool %s: %w", name, err)
		}
	}

	for i := range l.arena.entries {
		e := &l.arena.entries[i]
		if !e.occupied {
			continue
		}
		e.value.eachActive(func(id ComponentID, _ uint32) {
			l.presence.set(id, uint32(i))
		})
	}
	return l, nil
}
