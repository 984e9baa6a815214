// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.pprof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/edwinsyarief/daicho"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type props struct {
	ID int
}

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	records := 100000
	run(count, iters, records)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC() // Trigger garbage collection
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numRecords int) {
	daicho.RegisterComponent[comp1]()
	daicho.RegisterComponent[comp2]()
	daicho.RegisterComponent[comp3]()
	for range rounds {
		l := daicho.NewList[props](numRecords)
		for i := 0; i < numRecords; i++ {
			d := daicho.NewDetached(props{ID: i})
			daicho.Set(d, comp1{V: int64(i)})
			daicho.Set(d, comp2{V: 1})
			daicho.Set(d, comp3{W: 1})
			l.Insert(d)
		}
		query := l.Query(daicho.GetID[comp1](), daicho.GetID[comp2](), daicho.GetID[comp3]())

		for range iters {
			query.Reset()
			for query.Next() {
				c1 := daicho.Get[comp1](query.Record())
				c2 := daicho.Get[comp2](query.Record())
				c1.V += c2.V
				c1.W += c2.W
			}
		}
	}
}
