package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetRoundTrip(t *testing.T) {
	s := New()
	in := InsertDataset{
		Name:     "sales.csv",
		Data:     []map[string]any{{"a": "1", "b": "2"}},
		Columns:  []string{"a", "b"},
		RowCount: "1",
		FileSize: "0.1 KB",
	}
	created := s.CreateDataset(in)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, ok := s.GetDataset(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Data, got.Data)
	assert.Equal(t, in.Columns, got.Columns)
	assert.Equal(t, in.RowCount, got.RowCount)
	assert.Equal(t, in.FileSize, got.FileSize)
}

func TestListDatasetsNewestFirst(t *testing.T) {
	s := New()
	first := s.CreateDataset(InsertDataset{Name: "first"})
	second := s.CreateDataset(InsertDataset{Name: "second"})
	third := s.CreateDataset(InsertDataset{Name: "third"})

	list := s.ListDatasets()
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)
}

func TestDeleteDataset(t *testing.T) {
	s := New()
	d := s.CreateDataset(InsertDataset{Name: "doomed"})

	assert.True(t, s.DeleteDataset(d.ID))
	_, ok := s.GetDataset(d.ID)
	assert.False(t, ok)
	assert.False(t, s.DeleteDataset(d.ID))
	assert.False(t, s.DeleteDataset("no-such-id"))
}

func TestDeleteDatasetDoesNotCascade(t *testing.T) {
	s := New()
	d := s.CreateDataset(InsertDataset{Name: "parent"})
	ins := s.CreateInsight(InsertInsight{DatasetID: d.ID, Content: "c", Confidence: "80"})

	require.True(t, s.DeleteDataset(d.ID))
	got, ok := s.GetInsight(ins.ID)
	assert.True(t, ok)
	assert.Equal(t, d.ID, got.DatasetID)
}

func TestInsightsByDataset(t *testing.T) {
	s := New()
	d := s.CreateDataset(InsertDataset{Name: "d"})
	other := s.CreateDataset(InsertDataset{Name: "other"})

	a := s.CreateInsight(InsertInsight{DatasetID: d.ID, Content: "a", Confidence: "50"})
	s.CreateInsight(InsertInsight{DatasetID: other.ID, Content: "x", Confidence: "60"})
	b := s.CreateInsight(InsertInsight{DatasetID: d.ID, Content: "b", Confidence: "70"})

	got := s.InsightsByDataset(d.ID)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)

	assert.Empty(t, s.InsightsByDataset("no-such-dataset"))
}

func TestShareByToken(t *testing.T) {
	s := New()
	d := s.CreateDataset(InsertDataset{Name: "d"})
	sh := s.CreateShare(InsertShare{DatasetID: d.ID, AllowDownloads: true})
	require.NotEmpty(t, sh.ShareToken)
	require.NotEqual(t, sh.ID, sh.ShareToken)

	got, ok := s.ShareByToken(sh.ShareToken)
	require.True(t, ok)
	assert.Equal(t, sh, got)

	_, ok = s.ShareByToken("bogus")
	assert.False(t, ok)
}

func TestSharesByDataset(t *testing.T) {
	s := New()
	d := s.CreateDataset(InsertDataset{Name: "d"})
	sh1 := s.CreateShare(InsertShare{DatasetID: d.ID})
	sh2 := s.CreateShare(InsertShare{DatasetID: d.ID, RequirePassword: true, Password: "pw"})
	s.CreateShare(InsertShare{DatasetID: "elsewhere"})

	got := s.SharesByDataset(d.ID)
	require.Len(t, got, 2)
	assert.Equal(t, sh1.ID, got[0].ID)
	assert.Equal(t, sh2.ID, got[1].ID)
	assert.True(t, got[1].RequirePassword)
}

func TestDeleteShareAndInsight(t *testing.T) {
	s := New()
	d := s.CreateDataset(InsertDataset{Name: "d"})
	sh := s.CreateShare(InsertShare{DatasetID: d.ID})
	ins := s.CreateInsight(InsertInsight{DatasetID: d.ID, Content: "c", Confidence: "10"})

	assert.True(t, s.DeleteShare(sh.ID))
	assert.False(t, s.DeleteShare(sh.ID))
	assert.True(t, s.DeleteInsight(ins.ID))
	assert.False(t, s.DeleteInsight(ins.ID))
}
