/*
Copyright © 2025 the tropwave authors.
This file is part of tropwave.

tropwave is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tropwave is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tropwave.  If not, see <http://www.gnu.org/licenses/>.
*/

package tropwave

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/cdf"
)

// ncVariable is a variable read from a NetCDF file, converted to
// float64 in row-major order.
type ncVariable struct {
	name   string
	dims   []string
	shape  []int
	values []float64
	attrs  map[string]interface{}
}

// ncReader reads variables from either a classic or a NetCDF-4 file.
type ncReader interface {
	variable(name string) (*ncVariable, error)
	Close() error
}

var (
	cdfMagic  = []byte("CDF")
	hdf5Magic = []byte("\x89HDF")
)

// openNC opens the NetCDF file at path, choosing the reader from the
// file signature.
func openNC(path string) (ncReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tropwave: opening netcdf file: %v", err)
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		f.Close()
		return nil, fmt.Errorf("tropwave: reading signature of %s: %v", path, err)
	}
	switch {
	case bytes.HasPrefix(magic, cdfMagic):
		cf, err := cdf.Open(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("tropwave: opening classic netcdf file %s: %v", path, err)
		}
		return &cdfReader{f: f, cf: cf}, nil
	case bytes.Equal(magic, hdf5Magic):
		f.Close()
		g, err := netcdf.Open(path)
		if err != nil {
			return nil, fmt.Errorf("tropwave: opening netcdf-4 file %s: %v", path, err)
		}
		return &hdf5Reader{g: g}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("tropwave: %s is not a netcdf file", path)
	}
}

// cdfReader reads classic (CDF-1 and CDF-2) files.
type cdfReader struct {
	f  *os.File
	cf *cdf.File
}

func (r *cdfReader) Close() error { return r.f.Close() }

func (r *cdfReader) variable(name string) (*ncVariable, error) {
	h := r.cf.Header
	lengths := h.Lengths(name)
	if lengths == nil {
		return nil, fmt.Errorf("tropwave: read netcdf: variable %v not in file", name)
	}
	shape := append([]int{}, lengths...)
	if h.IsRecordVariable(name) {
		fi, err := r.f.Stat()
		if err != nil {
			return nil, fmt.Errorf("tropwave: read netcdf variable %s: %v", name, err)
		}
		shape[0] = int(h.NumRecs(fi.Size()))
	}
	n := 1
	for _, l := range shape {
		n *= l
	}
	v := &ncVariable{
		name:  name,
		dims:  h.Dimensions(name),
		shape: shape,
		attrs: make(map[string]interface{}),
	}
	for _, a := range h.Attributes(name) {
		v.attrs[a] = h.GetAttribute(name, a)
	}
	if n == 0 {
		return v, nil
	}
	rd := r.cf.Reader(name, nil, nil)
	buf := rd.Zero(n)
	if _, err := rd.Read(buf); err != nil {
		return nil, fmt.Errorf("tropwave: read netcdf variable %s: %v", name, err)
	}
	vals, err := toFloats(buf)
	if err != nil {
		return nil, fmt.Errorf("tropwave: read netcdf variable %s: %v", name, err)
	}
	v.values = vals
	return v, nil
}

// hdf5Reader reads NetCDF-4 files.
type hdf5Reader struct {
	g api.Group
}

func (r *hdf5Reader) Close() error {
	r.g.Close()
	return nil
}

func (r *hdf5Reader) variable(name string) (*ncVariable, error) {
	vr, err := r.g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("tropwave: read netcdf variable %s: %v", name, err)
	}
	v := &ncVariable{
		name:  name,
		dims:  vr.Dimensions,
		attrs: make(map[string]interface{}),
	}
	if vr.Attributes != nil {
		for _, k := range vr.Attributes.Keys() {
			if val, ok := vr.Attributes.Get(k); ok {
				v.attrs[k] = val
			}
		}
	}
	v.shape, v.values, err = flatten(vr.Values)
	if err != nil {
		return nil, fmt.Errorf("tropwave: read netcdf variable %s: %v", name, err)
	}
	if len(v.shape) != len(v.dims) {
		return nil, fmt.Errorf("tropwave: read netcdf variable %s: %d dimensions for %d-d data",
			name, len(v.dims), len(v.shape))
	}
	return v, nil
}

// flatten converts the nested slices returned by the NetCDF-4 reader
// into a shape and row-major float64 values.
func flatten(values interface{}) ([]int, []float64, error) {
	rv := reflect.ValueOf(values)
	var shape []int
	for t := rv; t.Kind() == reflect.Slice; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	n := 1
	for _, l := range shape {
		n *= l
	}
	out := make([]float64, 0, n)
	var walk func(v reflect.Value, depth int) error
	walk = func(v reflect.Value, depth int) error {
		if depth == len(shape) {
			f, err := number(v)
			if err != nil {
				return err
			}
			out = append(out, f)
			return nil
		}
		if v.Kind() != reflect.Slice || v.Len() != shape[depth] {
			return fmt.Errorf("ragged array at depth %d", depth)
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rv, 0); err != nil {
		return nil, nil, err
	}
	return shape, out, nil
}

func number(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	default:
		return math.NaN(), fmt.Errorf("unsupported data type %v", v.Type())
	}
}

// toFloats converts a numeric scalar or slice to []float64.
func toFloats(val interface{}) ([]float64, error) {
	switch x := val.(type) {
	case []float64:
		return append([]float64{}, x...), nil
	case []float32:
		o := make([]float64, len(x))
		for i, v := range x {
			o[i] = float64(v)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(x))
		for i, v := range x {
			o[i] = float64(v)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(x))
		for i, v := range x {
			o[i] = float64(v)
		}
		return o, nil
	case []uint8:
		o := make([]float64, len(x))
		for i, v := range x {
			o[i] = float64(v)
		}
		return o, nil
	}
	_, o, err := flatten(val)
	return o, err
}

func (v *ncVariable) attrString(name string) string {
	switch s := v.attrs[name].(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

func (v *ncVariable) attrFloat(name string) (float64, bool) {
	a, ok := v.attrs[name]
	if !ok || a == nil {
		return 0, false
	}
	if _, isString := a.(string); isString {
		return 0, false
	}
	f, err := toFloats(a)
	if err != nil || len(f) == 0 {
		return 0, false
	}
	return f[0], true
}

// unpack replaces fill and missing values with NaN and applies the
// scale_factor and add_offset attributes.
func (v *ncVariable) unpack() {
	fill, hasFill := v.attrFloat("_FillValue")
	missing, hasMissing := v.attrFloat("missing_value")
	scale, hasScale := v.attrFloat("scale_factor")
	offset, _ := v.attrFloat("add_offset")
	if !hasScale {
		scale = 1
	}
	for i, x := range v.values {
		if (hasFill && x == fill) || (hasMissing && x == missing) {
			v.values[i] = math.NaN()
			continue
		}
		v.values[i] = x*scale + offset
	}
}
