package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type (
	keyDID    = string
	valueType = json.RawMessage
)

type regMapType map[keyDID]valueType

// Reg is a persistent JSON file register of agents by their DID. Values are
// JSON documents, normally agent configurations without secrets.
type Reg struct {
	r regMapType
	l sync.Mutex
}

func newReg(data []byte) (r *regMapType) {
	r = new(regMapType)
	err := json.Unmarshal(data, r)
	if err != nil {
		panic(fmt.Sprintln("Error marshalling from JSON: ", err.Error()))
	}
	return
}

func (r *Reg) Exist(key keyDID) bool {
	r.l.Lock()
	defer r.l.Unlock()
	_, ok := r.r[key]
	return ok
}

func (r *Reg) Add(key keyDID, value valueType) {
	glog.V(3).Infof("register add: %s", key)
	r.l.Lock()
	defer r.l.Unlock()
	if r.r == nil {
		r.r = make(regMapType)
	}
	r.r[key] = value
}

func (r *Reg) Rm(key keyDID) {
	glog.V(3).Infof("register rm: %s", key)
	r.l.Lock()
	defer r.l.Unlock()
	delete(r.r, key)
}

func (r *Reg) Len() int {
	r.l.Lock()
	defer r.l.Unlock()
	return len(r.r)
}

func (r *Reg) Load(filename string) (err error) {
	defer err2.Handle(&err, "load register")

	r.l.Lock()
	defer r.l.Unlock()

	if filename == "" {
		r.r = make(regMapType)
		return nil
	}

	data, err := readJSONFile(filename)
	if err != nil && os.IsNotExist(err) {
		try.To(writeJSONFile(filename, []byte("{}")))
		data, err = readJSONFile(filename)
	}
	try.To(err)

	r.r = *newReg(data)
	return nil
}

func (r *Reg) Save(filename string) (err error) {
	r.l.Lock()
	defer r.l.Unlock()

	var data []byte
	if data, err = json.MarshalIndent(r.r, "", "\t"); err != nil {
		return err
	}
	return writeJSONFile(filename, data)
}

func (r *Reg) EnumValues(handler func(k keyDID, v valueType) bool) {
	r.l.Lock()
	defer r.l.Unlock()
	for k, v := range r.r {
		if !handler(k, v) {
			break
		}
	}
}

func (r *Reg) Reset(filename string) (err error) {
	defer err2.Handle(&err, "resetting")
	try.To(r.Load(""))       // reset data
	try.To(r.Save(filename)) // save reset data to file
	return err
}

func writeJSONFile(name string, json []byte) error {
	return os.WriteFile(name, json, 0644)
}

func readJSONFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
