package csvdb

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderOK(t *testing.T) {
	content := bytes.NewBufferString(`#lalala
# comment
office,ip,8.8.8.8

# comment
home,coordinate,"35.6812,139.7671"
`)
	reader := NewCSVReader[QueueItem](content, NewQueueItem)

	item, err := reader.Read()

	assert.Nil(t, err)
	assert.Equal(t, "office", item.Name)
	assert.Equal(t, "ip", item.Kind)
	assert.Equal(t, "8.8.8.8", item.Value)

	item, err = reader.Read()

	assert.Nil(t, err)
	assert.Equal(t, "home", item.Name)
	assert.Equal(t, "35.6812,139.7671", item.Value)

	_, err = reader.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReaderCannotParse(t *testing.T) {
	content := bytes.NewBufferString(`# comment
office,ip
home,city_name,Tokyo
`)
	reader := NewCSVReader[QueueItem](content, NewQueueItem)

	_, err := reader.Read()

	rowErr := &RowError{}

	assert.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Line)

	item, err := reader.Read()

	assert.Nil(t, err)
	assert.Equal(t, "Tokyo", item.Value)
}

func TestReaderIncorrectCSV(t *testing.T) {
	content := bytes.NewBufferString(`#lalala
# comment
"
# comment
`)
	reader := NewCSVReader[QueueItem](content, NewQueueItem)
	_, err := reader.Read()

	assert.NotNil(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestReaderByteOrderMark(t *testing.T) {
	content := bytes.NewBufferString("\ufeffoffice,ip,1.1.1.1\n")
	reader := NewCSVReader[QueueItem](content, NewQueueItem)

	item, err := reader.Read()

	assert.Nil(t, err)
	assert.Equal(t, "office", item.Name)
}
