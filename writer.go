package duphash

import (
	"bufio"
	"io"
	"strconv"
)

// WritePairs writes one line per observed ordered pair:
//
//	producer1 strategy1 producer2 strategy2 dup_count union_count
//
// Lines are ordered by (First, Second).
func WritePairs(w io.Writer, r *Result) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)

	for _, row := range r.Pairs() {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(row.First.Producer), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(row.First.Strategy), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(row.Second.Producer), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(row.Second.Strategy), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(row.Duplicates), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(row.Union), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteUnique writes "producer strategy unique_count" per identity, sorted.
func WriteUnique(w io.Writer, r *Result) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	for _, id := range r.Identities() {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(id.Producer), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(id.Strategy), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(r.UniqueCount[id]), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteMatrix writes a tab-separated grid: a header row of labels, then one
// row per identity starting with its label. Ratios use six decimals.
func WriteMatrix(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)

	if m.Size() == 0 {
		return bw.Flush()
	}

	for _, label := range m.Labels {
		bw.WriteByte('\t')
		bw.WriteString(label)
	}
	bw.WriteByte('\n')

	buf := make([]byte, 0, 16)
	for i, row := range m.Values {
		bw.WriteString(m.Labels[i])
		for _, v := range row {
			buf = strconv.AppendFloat(buf[:0], v, 'f', 6, 64)
			bw.WriteByte('\t')
			bw.Write(buf)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteClusters writes one cluster per line, members separated by spaces
// as "producer:strategy".
func WriteClusters(w io.Writer, clusters [][]Identity) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)

	for _, cluster := range clusters {
		buf = buf[:0]
		for i, id := range cluster {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(id.Producer), 10)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, int64(id.Strategy), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}
