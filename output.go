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
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/sparse"
)

// outputFunctions are the functions available to output expressions.
var outputFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("tropwave: got %d arguments for function 'exp', but needs 1", len(arg))
		}
		return math.Exp(arg[0].(float64)), nil
	},
	"abs": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("tropwave: got %d arguments for function 'abs', but needs 1", len(arg))
		}
		return math.Abs(arg[0].(float64)), nil
	},
	"sqrt": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("tropwave: got %d arguments for function 'sqrt', but needs 1", len(arg))
		}
		return math.Sqrt(arg[0].(float64)), nil
	},
}

// AddOutputVariables evaluates the expressions in exprs, keyed by the name
// of the new variable, at every grid point and adds the results to b.
// Expressions may refer to any budget variable, to the wind fields
// "u", "v" and "omega", and to other output variables, for example
//
//	{"horizontal": "u*ds_dx + v*ds_dy", "Qv": "Q - horizontal"}
func (b *Budget) AddOutputVariables(exprs map[string]string) error {
	parsed := make(map[string]*govaluate.EvaluableExpression, len(exprs))
	for name, e := range exprs {
		if _, ok := b.Data[name]; ok {
			return fmt.Errorf("tropwave: output variable %s already exists in the budget", name)
		}
		ex, err := govaluate.NewEvaluableExpressionWithFunctions(e, outputFunctions)
		if err != nil {
			return fmt.Errorf("tropwave: parsing output variable %s: %v", name, err)
		}
		parsed[name] = ex
	}

	// Evaluate the expressions in dependency order.
	pending := make([]string, 0, len(parsed))
	for name := range parsed {
		pending = append(pending, name)
	}
	sort.Strings(pending)
	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			vars := removeDuplicates(parsed[name].Vars())
			arrays, ok := b.lookup(vars)
			if !ok {
				next = append(next, name)
				continue
			}
			data, err := evaluate(parsed[name], vars, arrays)
			if err != nil {
				return fmt.Errorf("tropwave: evaluating output variable %s: %v", name, err)
			}
			b.AddVariable(name, budgetDims, exprs[name], "", data)
		}
		if len(next) == len(pending) {
			return fmt.Errorf("tropwave: output variables %v refer to undefined variables", next)
		}
		pending = next
	}
	return nil
}

// lookup returns the arrays for vars, and false if any is not available.
func (b *Budget) lookup(vars []string) ([]*sparse.DenseArray, bool) {
	o := make([]*sparse.DenseArray, len(vars))
	for i, v := range vars {
		if d := b.Var(v); d != nil {
			o[i] = d
		} else if d, ok := b.inputs[v]; ok {
			o[i] = d
		} else {
			return nil, false
		}
	}
	return o, true
}

func evaluate(ex *govaluate.EvaluableExpression, vars []string, arrays []*sparse.DenseArray) (*sparse.DenseArray, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("expression does not refer to any variable")
	}
	out := sparse.ZerosDense(arrays[0].Shape...)
	params := make(map[string]interface{}, len(vars))
	for i := range out.Elements {
		for j, v := range vars {
			params[v] = arrays[j].Elements[i]
		}
		r, err := ex.Evaluate(params)
		if err != nil {
			return nil, err
		}
		f, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("expression result %v is not a number", r)
		}
		out.Elements[i] = f
	}
	return out, nil
}

// removeDuplicates removes all duplicated strings from a slice, returning a
// slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}
