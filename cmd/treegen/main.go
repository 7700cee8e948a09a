package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"github.com/funny-falcon/syncsplit"
	"github.com/funny-falcon/syncsplit/bintree"
)

var height = flag.Uint("height", 18, "tree height")
var slack = flag.Int("slack", 0, "extra arena nodes beyond the exact fit")
var port = flag.String("port", "", "serve stats on this port instead of printing them")

var jsonConfig = jsoniter.Config{}.Froze()

var (
	nodes    []bintree.Node
	arenaCap int
	rootIdx  int
	buildNs  int64
)

func main() {
	log.SetFlags(log.Lmicroseconds | log.Lshortfile)
	flag.Parse()

	h := uint32(*height)
	arenaCap = bintree.Count(h) + *slack
	nodes = make([]bintree.Node, arenaCap)
	sp := syncsplit.New(nodes)

	start := time.Now()
	root, ok := bintree.Build(sp, h)
	buildNs = time.Since(start).Nanoseconds()
	if !ok {
		log.Fatalf("arena of %d nodes too small for height %d", arenaCap, h)
	}
	rootIdx = root
	nodes = nodes[:sp.Done()]
	log.Printf("built %d nodes in %s", len(nodes), time.Duration(buildNs))

	if *port == "" {
		stream := jsonConfig.BorrowStream(nil)
		writeStats(stream)
		stream.WriteRaw("\n")
		os.Stdout.Write(stream.Buffer())
		jsonConfig.ReturnStream(stream)
		return
	}

	err := fasthttp.ListenAndServe(":"+*port, handler)
	if err != nil {
		log.Fatal(err)
	}
}

func handler(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.SetStatusCode(405)
		return
	}
	path := string(ctx.Path())
	switch {
	case path == "/stats":
		stream := jsonConfig.BorrowStream(nil)
		writeStats(stream)
		ctx.SetContentType("application/json")
		ctx.SetBody(stream.Buffer())
		jsonConfig.ReturnStream(stream)
	case strings.HasPrefix(path, "/node/"):
		id, err := strconv.Atoi(path[len("/node/"):])
		if err != nil {
			ctx.SetStatusCode(400)
			return
		}
		if id < 0 || id >= len(nodes) {
			ctx.SetStatusCode(404)
			return
		}
		stream := jsonConfig.BorrowStream(nil)
		writeNode(stream, id)
		ctx.SetContentType("application/json")
		ctx.SetBody(stream.Buffer())
		jsonConfig.ReturnStream(stream)
	default:
		ctx.SetStatusCode(404)
	}
}

func writeStats(stream *jsoniter.Stream) {
	stream.Write([]byte(`{"height":`))
	stream.WriteUint(*height)
	stream.Write([]byte(`,"nodes":`))
	stream.WriteInt(len(nodes))
	stream.Write([]byte(`,"cap":`))
	stream.WriteInt(arenaCap)
	stream.Write([]byte(`,"root":`))
	stream.WriteInt(rootIdx)
	stream.Write([]byte(`,"ns":`))
	stream.WriteInt64(buildNs)
	stream.WriteObjectEnd()
}

func writeNode(stream *jsoniter.Stream, id int) {
	n := &nodes[id]
	stream.Write([]byte(`{"id":`))
	stream.WriteInt(id)
	stream.Write([]byte(`,"height":`))
	stream.WriteUint32(n.Height)
	stream.Write([]byte(`,"first_child":`))
	stream.WriteInt32(n.FirstChild)
	stream.WriteObjectEnd()
}
