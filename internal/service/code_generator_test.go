package service

import (
	"testing"

	"clinic-queue/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorInitial(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Dr. Ana", "A"},
		{"Dra. Marta Ruiz", "M"},
		{"dr Luis", "L"},
		{"Doctora Elena", "E"},
		{"Ana Torres", "A"},
		{"Dr.", "D"},
		{"  ñandú", "Ñ"},
		{"123 456", "X"},
		{"", "X"},
	}

	for _, tt := range cases {
		assert.Equalf(t, tt.want, DoctorInitial(tt.name), "DoctorInitial(%q)", tt.name)
	}
}

func TestNextStableCode_SequencePerDoctorAndMotive(t *testing.T) {
	f := newFixture()
	ana := f.doctor(t, "Dr. Ana")

	code, err := f.codes.NextStableCode(nil, ana, "consulta")
	require.NoError(t, err)
	assert.Equal(t, "A-C-001", code)

	f.patient(t, "Juan", ana, "consulta")
	f.patient(t, "Maria", ana, "consulta")

	code, err = f.codes.NextStableCode(nil, ana, "consulta")
	require.NoError(t, err)
	assert.Equal(t, "A-C-003", code)

	code, err = f.codes.NextStableCode(nil, ana, "informacion")
	require.NoError(t, err)
	assert.Equal(t, "A-I-001", code)
}

func TestNextStableCode_SkipsTakenCodes(t *testing.T) {
	f := newFixture()
	ana := f.doctor(t, "Dr. Ana")
	alberto := f.doctor(t, "Dr. Alberto")

	first := f.patient(t, "Juan", ana, "consulta")
	assert.Equal(t, "A-C-001", first.StableCode)

	// Same initials, separate sequence: A-C-001 is already taken
	second := f.patient(t, "Pedro", alberto, "consulta")
	assert.Equal(t, "A-C-002", second.StableCode)
}

func TestNextStableCode_EmptyMotive(t *testing.T) {
	f := newFixture()
	ana := f.doctor(t, "Dr. Ana")

	code, err := f.codes.NextStableCode(nil, ana, "")
	require.NoError(t, err)
	assert.Equal(t, "A-X-001", code)
}

func TestNextTicketCode_CountsEveryTicket(t *testing.T) {
	f := newFixture()
	ana := f.doctor(t, "Dr. Ana")
	patient := f.patient(t, "Juan", ana, "consulta")

	code, n, err := f.codes.NextTicketCode(nil, patient)
	require.NoError(t, err)
	assert.Equal(t, "A-C-001-T1", code)
	assert.Equal(t, 1, n)

	first, err := f.ledger.Issue(nil, patient)
	require.NoError(t, err)
	_, err = f.ledger.CancelAllPending(nil, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-C-001-T1", first.Code)

	code, n, err = f.codes.NextTicketCode(nil, patient)
	require.NoError(t, err)
	assert.Equal(t, "A-C-001-T2", code)
	assert.Equal(t, 2, n)
}

func TestNextTicketCode_RequiresStableCode(t *testing.T) {
	f := newFixture()
	_, _, err := f.codes.NextTicketCode(nil, &entity.Patient{})
	assert.ErrorIs(t, err, ErrMissingStableCode)
}
