package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloneMap(tgt, src regMapType) {
	for k, v := range src {
		tgt[k] = v
	}
}

func Test_newReg_and_toJsonBytes(t *testing.T) {
	testReg1 := Reg{}
	testReg2 := Reg{}
	testReg3 := Reg{}

	r1 := make(regMapType)
	r1["a"] = json.RawMessage(`{"did":"A"}`)
	r1["b"] = json.RawMessage(`{"did":"B"}`)
	testReg1.r = make(regMapType)
	cloneMap(testReg1.r, r1)
	jsonBytes1 := dto.ToJSONBytes(testReg1.r)

	r2 := make(regMapType)
	r2["c"] = json.RawMessage(`["C","c"]`)
	testReg2.r = make(regMapType)
	cloneMap(testReg2.r, r2)
	jsonBytes2 := dto.ToJSONBytes(testReg2.r)

	r3 := buildRegistryData()
	testReg3.r = make(regMapType)
	cloneMap(testReg3.r, r3)
	jsonBytes3 := dto.ToJSONBytes(testReg3.r)

	type args struct {
		data []byte
	}
	tests := []struct {
		name  string
		args  args
		wantR *regMapType
	}{
		{"1st", args{data: jsonBytes1}, &r1},
		{"2nd", args{data: jsonBytes2}, &r2},
		{"3rd", args{data: jsonBytes3}, &r3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if gotR := newReg(tt.args.data); !reflect.DeepEqual(gotR, tt.wantR) {
				t.Errorf("newReg() = %v, want %v", gotR, tt.wantR)
			}
		})
	}
}

func Test_reg_save_and_load(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reg.json")

	r := &Reg{r: buildRegistryData()}
	require.NoError(t, r.Save(filename))

	r2 := &Reg{}
	require.NoError(t, r2.Load(filename))
	assert.Equal(t, r.Len(), r2.Len())

	var v struct{ DID string }
	r2.EnumValues(func(k keyDID, val valueType) bool {
		require.NoError(t, json.Unmarshal(val, &v))
		assert.Equal(t, k, v.DID)
		return true
	})
}

func TestReg_Load_NotExists(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "new.json")

	r := &Reg{}
	require.NoError(t, r.Load(filename))
	assert.Equal(t, 0, r.Len())
	_, err := os.Stat(filename)
	assert.NoError(t, err)
}

func buildRegistryData() regMapType {
	r3 := make(regMapType)
	for _, did := range []string{"1", "2", "3", "4", "5", "6"} {
		r3[did] = json.RawMessage(`{"DID":"` + did + `"}`)
	}
	return r3
}

func TestReg_Exist(t *testing.T) {
	reg := Reg{r: buildRegistryData()}
	assert.True(t, reg.Exist("3"))
	assert.False(t, reg.Exist("7"))

	reg.Add("7", json.RawMessage(`{}`))
	assert.True(t, reg.Exist("7"))

	reg.Rm("7")
	assert.False(t, reg.Exist("7"))
	reg.Rm("7")
	assert.Equal(t, 6, reg.Len())
}

func Test_reg_enumValues(t *testing.T) {
	r := &Reg{r: buildRegistryData()}

	count := 0
	r.EnumValues(func(k keyDID, v valueType) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)
}

func Test_reg_Reset(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reg.json")

	r := &Reg{r: buildRegistryData()}
	require.NoError(t, r.Save(filename))
	require.NoError(t, r.Load(filename))
	assert.NotZero(t, r.Len())

	require.NoError(t, r.Reset(filename))
	assert.Zero(t, r.Len())

	require.NoError(t, r.Load(filename))
	assert.Zero(t, r.Len())
}
