// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceBQudgMmpXFtWVjYjPFbpYQΞΞ = ord.NewSliceSer[string](ord.String)
	slicemgGy7CuILdJJVWj9nXh1hQΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var ActivityEmbeddingMUS = activityEmbeddingMUS{}

type activityEmbeddingMUS struct{}

func (s activityEmbeddingMUS) Marshal(v ActivityEmbedding, bs []byte) (n int) {
	n = ord.String.Marshal(v.Label, bs)
	n += sliceBQudgMmpXFtWVjYjPFbpYQΞΞ.Marshal(v.Codes, bs[n:])
	n += slicemgGy7CuILdJJVWj9nXh1hQΞΞ.Marshal(v.Vector, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s activityEmbeddingMUS) Unmarshal(bs []byte) (v ActivityEmbedding, n int, err error) {
	v.Label, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Codes, n1, err = sliceBQudgMmpXFtWVjYjPFbpYQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slicemgGy7CuILdJJVWj9nXh1hQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s activityEmbeddingMUS) Size(v ActivityEmbedding) (size int) {
	size = ord.String.Size(v.Label)
	size += sliceBQudgMmpXFtWVjYjPFbpYQΞΞ.Size(v.Codes)
	size += slicemgGy7CuILdJJVWj9nXh1hQΞΞ.Size(v.Vector)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s activityEmbeddingMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceBQudgMmpXFtWVjYjPFbpYQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicemgGy7CuILdJJVWj9nXh1hQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var IndexFingerprintMUS = indexFingerprintMUS{}

type indexFingerprintMUS struct{}

func (s indexFingerprintMUS) Marshal(v IndexFingerprint, bs []byte) (n int) {
	n = varint.Uint64.Marshal(v.LabelsHash, bs)
	n += ord.String.Marshal(v.ModelID, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.GeneratedAt, bs[n:])
}

func (s indexFingerprintMUS) Unmarshal(bs []byte) (v IndexFingerprint, n int, err error) {
	v.LabelsHash, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ModelID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.GeneratedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s indexFingerprintMUS) Size(v IndexFingerprint) (size int) {
	size = varint.Uint64.Size(v.LabelsHash)
	size += ord.String.Size(v.ModelID)
	return size + raw.TimeUnixMicro.Size(v.GeneratedAt)
}

func (s indexFingerprintMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
