package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) Record {
	t.Helper()
	rec := NewRecord(12)
	require.NoError(t, rec.SetText(FieldFullName, "Beatriz Lima"))
	require.NoError(t, rec.SetText(FieldNationalID, "987"))
	require.NoError(t, rec.SetText(FieldCourse, "Teatro"))
	require.NoError(t, rec.SetText(FieldObservations, "Observação\ncom duas linhas"))
	require.NoError(t, rec.SetFlag(FieldLivesWithRelatives, true))
	return rec
}

func TestFlagTokens(t *testing.T) {
	assert.Equal(t, "Sim", FlagToken(true))
	assert.Equal(t, "Não", FlagToken(false))
	assert.True(t, ParseFlagToken("Sim"))
	assert.False(t, ParseFlagToken("Não"))
	assert.False(t, ParseFlagToken(""), "blank legacy column reads as negative")
	assert.False(t, ParseFlagToken("sim"))
}

func TestColumnsEncoding(t *testing.T) {
	rec := sampleRecord(t)
	cols := rec.Columns()
	require.Len(t, cols, NumFields()+1)
	assert.Equal(t, 12, cols[0])
	assert.Equal(t, "Beatriz Lima", cols[1+int(FieldFullName)])
	assert.Equal(t, TokenYes, cols[1+int(FieldLivesWithRelatives)])
	assert.Equal(t, TokenNo, cols[1+int(FieldDocPhoto)])

	fields := make([]string, NumFields())
	for i := range fields {
		fields[i] = cols[i+1].(string)
	}
	back, err := RecordFromColumns(12, fields)
	require.NoError(t, err)
	assert.True(t, rec.Equal(back))

	_, err = RecordFromColumns(1, fields[:3])
	assert.Error(t, err)
}

func TestMapEncoding(t *testing.T) {
	rec := sampleRecord(t)
	m := rec.ToMap()
	assert.Equal(t, "12", m[CodeColumn])
	assert.Equal(t, "Sim", m["mora_parentes"])
	assert.Len(t, m, NumFields()+1)

	back, err := RecordFromMap(m)
	require.NoError(t, err)
	assert.True(t, rec.Equal(back))

	partial, err := RecordFromMap(map[string]string{"nome_completo": "Ana", "doc_id": "Sim"})
	require.NoError(t, err)
	assert.Equal(t, 0, partial.Code)
	assert.Equal(t, "Ana", partial.FullName())
	assert.True(t, partial.Flag(FieldDocID))

	_, err = RecordFromMap(map[string]string{"apelido": "x"})
	assert.ErrorIs(t, err, ErrUnknownField)
	_, err = RecordFromMap(map[string]string{CodeColumn: "abc"})
	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}
