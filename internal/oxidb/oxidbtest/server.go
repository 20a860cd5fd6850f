// Package oxidbtest runs an in-memory oxidb-server over net.Pipe for tests.
// It understands the document commands the store issues and matches queries
// by top-level equality.
package oxidbtest

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"reflect"
	"sort"
	"sync"

	"github.com/parisxmas/oxidocs/internal/oxidb"
)

// Server holds collections of documents keyed by auto-increment _id.
type Server struct {
	mu    sync.Mutex
	colls map[string]*collection
	pings int
	down  bool
}

type collection struct {
	nextID int64
	docs   map[int64]map[string]any
	unique map[string]bool
}

func New() *Server {
	return &Server{colls: map[string]*collection{}}
}

// Dial returns a client connected to s over an in-process pipe.
func (s *Server) Dial() (*oxidb.Client, error) {
	server, client := net.Pipe()
	go s.serve(server)
	return oxidb.NewClient(client), nil
}

// SetDown makes every following command answer with an error.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

// Pings reports how many pings the server has answered.
func (s *Server) Pings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pings
}

// Len reports the number of documents in a collection.
func (s *Server) Len(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.colls[name]; ok {
		return len(c.docs)
	}
	return 0
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()
	lenBuf := make([]byte, 4)
	for {
		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			return
		}
		payload := make([]byte, binary.LittleEndian.Uint32(lenBuf))
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		var req map[string]any
		var resp map[string]any
		if err := json.Unmarshal(payload, &req); err != nil {
			resp = fail(err)
		} else {
			resp = s.handle(req)
		}
		out, _ := json.Marshal(resp)
		frame := make([]byte, 4+len(out))
		binary.LittleEndian.PutUint32(frame, uint32(len(out)))
		copy(frame[4:], out)
		if _, err := conn.Write(frame); err != nil {
			return
		}
	}
}

func ok(data any) map[string]any { return map[string]any{"ok": true, "data": data} }

func fail(err error) map[string]any { return map[string]any{"ok": false, "error": err.Error()} }

func (s *Server) coll(name string) *collection {
	c, ok := s.colls[name]
	if !ok {
		c = &collection{docs: map[int64]map[string]any{}, unique: map[string]bool{}}
		s.colls[name] = c
	}
	return c
}

func (s *Server) handle(req map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down {
		return fail(fmt.Errorf("server unavailable"))
	}
	name, _ := req["collection"].(string)
	query, _ := req["query"].(map[string]any)

	switch req["cmd"] {
	case "ping":
		s.pings++
		return ok("pong")
	case "create_collection":
		s.coll(name)
		return ok(nil)
	case "create_index":
		s.coll(name)
		return ok(nil)
	case "create_unique_index":
		field, _ := req["field"].(string)
		s.coll(name).unique[field] = true
		return ok(nil)
	case "insert":
		c := s.coll(name)
		doc, _ := req["doc"].(map[string]any)
		if err := c.checkUnique(doc, 0); err != nil {
			return fail(err)
		}
		c.nextID++
		doc["_id"] = float64(c.nextID)
		c.docs[c.nextID] = doc
		return ok(map[string]any{"id": c.nextID})
	case "find":
		return ok(s.coll(name).find(query))
	case "find_one":
		found := s.coll(name).find(query)
		if len(found) == 0 {
			return ok(nil)
		}
		return ok(found[0])
	case "count":
		return ok(map[string]any{"count": len(s.coll(name).find(query))})
	case "update_one":
		c := s.coll(name)
		found := c.find(query)
		if len(found) == 0 {
			return ok(map[string]any{"modified": 0})
		}
		id, _ := oxidb.ToInt64(found[0]["_id"])
		update, _ := req["update"].(map[string]any)
		set, _ := update["$set"].(map[string]any)
		next := map[string]any{}
		for k, v := range c.docs[id] {
			next[k] = v
		}
		for k, v := range set {
			next[k] = v
		}
		if err := c.checkUnique(next, id); err != nil {
			return fail(err)
		}
		c.docs[id] = next
		return ok(map[string]any{"modified": 1})
	case "delete_one":
		c := s.coll(name)
		found := c.find(query)
		if len(found) == 0 {
			return ok(map[string]any{"deleted": 0})
		}
		id, _ := oxidb.ToInt64(found[0]["_id"])
		delete(c.docs, id)
		return ok(map[string]any{"deleted": 1})
	}
	return fail(fmt.Errorf("unknown command %v", req["cmd"]))
}

func (c *collection) checkUnique(doc map[string]any, self int64) error {
	for field := range c.unique {
		for id, other := range c.docs {
			if id != self && reflect.DeepEqual(other[field], doc[field]) {
				return fmt.Errorf("unique index violation on %s", field)
			}
		}
	}
	return nil
}

func (c *collection) find(query map[string]any) []map[string]any {
	ids := make([]int64, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []map[string]any{}
	for _, id := range ids {
		doc := c.docs[id]
		if matches(doc, query) {
			out = append(out, doc)
		}
	}
	return out
}

func matches(doc, query map[string]any) bool {
	for k, want := range query {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}
