// Profiling:
// go build ./profile/records
// go tool pprof -http=":8000" -nodefraction=0.001 ./records mem.pprof

package main

import (
	"github.com/edwinsyarief/daicho"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type props struct {
	ID int
}

func main() {
	count := 50
	iters := 10000
	records := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, records)
	p.Stop()
}

func run(rounds, iters, numRecords int) {
	daicho.RegisterComponent[comp1]()
	daicho.RegisterComponent[comp2]()
	for range rounds {
		l := daicho.NewList[props](numRecords)
		query := l.Query(daicho.GetID[comp1](), daicho.GetID[comp2]())

		for range iters {
			for i := 0; i < numRecords; i++ {
				d := daicho.NewDetached(props{ID: i})
				daicho.Set(d, comp1{V: int64(i)})
				daicho.Set(d, comp2{V: 1, W: 2})
				l.Insert(d)
			}
			handles := []daicho.Handle{}
			query.Reset()
			for query.Next() {
				handles = append(handles, query.Handle())
				c1 := daicho.Get[comp1](query.Record())
				c2 := daicho.Get[comp2](query.Record())
				c1.V += c2.V
				c1.W += c2.W
			}
			for _, h := range handles {
				l.Remove(h)
			}
		}
	}
}
