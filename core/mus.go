package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the persisted domain types.
// Field order is part of the storage format; append new fields at the end.
var (
	IDMUS           = idMUS{}
	MemoryChunkMUS  = memoryChunkMUS{}
	FactMUS         = factMUS{}
	JournalEntryMUS = journalEntryMUS{}

	float32SliceMUS = ord.NewSliceSer[float32](varint.Float32)
	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type memoryChunkMUS struct{}

func (memoryChunkMUS) Marshal(v MemoryChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.URI, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += varint.Int.Marshal(v.Tokens, bs[n:])
	n += float32SliceMUS.Marshal(v.Vector, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(v.CreatedAt, bs[n:])
	return
}

func (memoryChunkMUS) Unmarshal(bs []byte) (v MemoryChunk, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Project, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.URI, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tokens, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CreatedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	return
}

func (memoryChunkMUS) Size(v MemoryChunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.URI)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Content)
	size += varint.Int.Size(v.Tokens)
	size += float32SliceMUS.Size(v.Vector)
	size += raw.TimeUnixMicroUTC.Size(v.CreatedAt)
	return
}

func (memoryChunkMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = varint.Int.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = float32SliceMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	n += n1
	return
}

type factMUS struct{}

func (factMUS) Marshal(v Fact, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Kind, bs[n:])
	n += ord.String.Marshal(v.Key, bs[n:])
	n += ord.String.Marshal(v.Value, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (factMUS) Unmarshal(bs []byte) (v Fact, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Project, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Kind, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Key, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Value, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	return
}

func (factMUS) Size(v Fact) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Kind)
	size += ord.String.Size(v.Key)
	size += ord.String.Size(v.Value)
	size += raw.TimeUnixMicroUTC.Size(v.UpdatedAt)
	return
}

func (factMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	for i := 0; i < 4; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	n += n1
	return
}

type journalEntryMUS struct{}

func (journalEntryMUS) Marshal(v JournalEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += ord.String.Marshal(v.Details, bs[n:])
	n += stringSliceMUS.Marshal(v.Tags, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(v.CreatedAt, bs[n:])
	return
}

func (journalEntryMUS) Unmarshal(bs []byte) (v JournalEntry, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Project, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Details, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CreatedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	return
}

func (journalEntryMUS) Size(v JournalEntry) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Summary)
	size += ord.String.Size(v.Details)
	size += stringSliceMUS.Size(v.Tags)
	size += raw.TimeUnixMicroUTC.Size(v.CreatedAt)
	return
}

func (journalEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = stringSliceMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	n += n1
	return
}
