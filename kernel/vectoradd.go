// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package kernel

import "fmt"

const (
	VARIANT_SCALAR     = "scalar"
	VARIANT_VECTORIZED = "vectorized"
)

var VectorAddScalar = `
__kernel void vector_add_scalar(__global const float* A, __global const float* B, __global float* C, const int numElements) {
    int i = get_global_id(0);
    if (i < numElements) {
        C[i] = A[i] + B[i];
    }
}
`

// each work item adds one float4, so the work size is a quarter of the element count
var VectorAddVectorized = `
__kernel void vector_add_vectorized(__global const float4* A, __global const float4* B, __global float4* C, const int numElements) {
    int i = get_global_id(0);
    if (i < numElements) {
        C[i] = A[i] + B[i];
    }
}
`

type Program struct {
	Variant string
	Source  string
	Entry   string
	// floats handled by a single work item
	Width int
}

func Source(variant string) (Program, error) {
	switch variant {
	case VARIANT_SCALAR:
		return Program{Variant: variant, Source: VectorAddScalar, Entry: "vector_add_scalar", Width: 1}, nil
	case VARIANT_VECTORIZED:
		return Program{Variant: variant, Source: VectorAddVectorized, Entry: "vector_add_vectorized", Width: 4}, nil
	}
	return Program{}, fmt.Errorf("unknown kernel variant %q (scalar|vectorized)", variant)
}
