package daicho

import (
	"bytes"
	"fmt"
	"testing"
)

var benchSink float32

func benchList(size int) *List[actorInfo] {
	ResetGlobalRegistry()
	RegisterComponent[Position]()
	RegisterComponent[Velocity]()
	RegisterComponent[Health]()
	return NewList[actorInfo](size)
}

func fillMixed(l *List[actorInfo], n int) []Handle {
	handles := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		d := NewDetached(actorInfo{})
		Set(d, Position{X: float32(i)})
		if i%2 == 0 {
			Set(d, Velocity{VX: 1})
		}
		if i%3 == 0 {
			Set(d, Health{Current: i})
		}
		handles = append(handles, l.Insert(d))
	}
	return handles
}

func BenchmarkListInsert(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			l := benchList(size)
			b.ReportAllocs()
			for b.Loop() {
				l.Clear()
				for i := 0; i < size; i++ {
					d := NewDetached(actorInfo{})
					Set(d, Position{X: float32(i)})
					Set(d, Velocity{})
					l.Insert(d)
				}
			}
		})
	}
}

func BenchmarkListChurn(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			l := benchList(size)
			handles := fillMixed(l, size)
			b.ReportAllocs()
			i := 0
			for b.Loop() {
				slot := i % len(handles)
				d, _ := l.Remove(handles[slot])
				handles[slot] = l.Insert(d)
				i++
			}
		})
	}
}

func BenchmarkQueryTwoComponents(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			l := benchList(size)
			fillMixed(l, size)
			it := l.Query(GetID[Position](), GetID[Velocity]())
			b.ReportAllocs()
			var sum float32
			for b.Loop() {
				it.Reset()
				for it.Next() {
					sum += Get[Position](it.Record()).X
				}
			}
			benchSink = sum
		})
	}
}

func BenchmarkIterAll(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			l := benchList(size)
			fillMixed(l, size)
			it := l.IterAll()
			b.ReportAllocs()
			var sum float32
			for b.Loop() {
				it.Reset()
				for it.Next() {
					sum += Get[Position](it.Record()).X
				}
			}
			benchSink = sum
		})
	}
}

func BenchmarkSingleIter(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			l := benchList(size)
			fillMixed(l, size)
			it := IterSingle[Position](l)
			b.ReportAllocs()
			var sum float32
			for b.Loop() {
				it.Reset()
				for it.Next() {
					sum += it.Value().X
				}
			}
			benchSink = sum
		})
	}
}

func BenchmarkSnapshotSave(b *testing.B) {
	compressions := []struct {
		name string
		comp Compression
	}{
		{"none", CompressionNone},
		{"zstd", CompressionZstd},
		{"lz4", CompressionLZ4},
	}
	for _, c := range compressions {
		b.Run(c.name, func(b *testing.B) {
			l := benchList(10000)
			fillMixed(l, 10000)
			opts := SnapshotOptions{Compression: c.comp}
			var buf bytes.Buffer
			b.ReportAllocs()
			for b.Loop() {
				buf.Reset()
				if err := l.Save(&buf, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
