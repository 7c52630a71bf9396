package serializer

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/rgKV/rpc/common"
)

// benchmarkMessages returns the messages a search workload sends most
func benchmarkMessages() map[string]common.Message {
	keys := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("2015:%02d:%02d", i%12+1, i%28+1)
		}
		return out
	}
	values := func(n int) ([][]byte, []bool) {
		vals := make([][]byte, n)
		found := make([]bool, n)
		for i := range vals {
			if i%10 == 0 {
				continue // every tenth key is missing
			}
			vals[i] = []byte(fmt.Sprintf("4a3c1f0e-%04d-4b7a-9c51-2f6e8d0b%04d", i, i))
			found[i] = true
		}
		return vals, found
	}
	mgetValues, mgetFound := values(100)

	return map[string]common.Message{
		"Get":            *common.NewGetRequest("2015:01:01"),
		"CommandRequest": *common.NewCommandRequest([]string{"rgvalues", "2015:*", "^4a3c"}),
		"KeysResponse10": *common.NewKeysResponse(keys(10), nil),
		"KeysResponse1k": *common.NewKeysResponse(keys(1000), nil),
		"MGetRequest100": *common.NewMGetRequest(keys(100)),
		"MGetResponse100": {
			MsgType: common.MsgTKVMGet,
			Values:  mgetValues,
			Found:   mgetFound,
			Ok:      true,
		},
		"CountResponse": {MsgType: common.MsgTCommand, Count: 42},
		"ErrorResponse": {MsgType: common.MsgTCommand, Kind: 2, Err: "invalid pattern \"(\": missing closing )"},
	}
}

func benchmarkSerializers() map[string]IRPCSerializer {
	return map[string]IRPCSerializer{
		"Binary": NewBinarySerializer(),
		"JSON":   NewJSONSerializer(),
		"GOB":    NewGOBSerializer(),
	}
}

func BenchmarkSerialize(b *testing.B) {
	for name, s := range benchmarkSerializers() {
		for msgName, msg := range benchmarkMessages() {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := s.Serialize(msg); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	for name, s := range benchmarkSerializers() {
		for msgName, msg := range benchmarkMessages() {
			data, err := s.Serialize(msg)
			if err != nil {
				b.Fatal(err)
			}
			b.Run(name+"_"+msgName, func(b *testing.B) {
				b.ReportAllocs()
				var out common.Message
				for i := 0; i < b.N; i++ {
					if err := s.Deserialize(data, &out); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkSize reports the encoded size of every message, the timing is irrelevant
func BenchmarkSize(b *testing.B) {
	for name, s := range benchmarkSerializers() {
		for msgName, msg := range benchmarkMessages() {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				var data []byte
				for i := 0; i < b.N; i++ {
					data, _ = s.Serialize(msg)
				}
				b.ReportMetric(float64(len(data)), "bytes")
			})
		}
	}
}
