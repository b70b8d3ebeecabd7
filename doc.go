// Package ustar reads and writes tape archives in the POSIX.1-1988 ustar
// format plus the documented GNU extensions: long names, long link targets,
// and old-GNU sparse members. pax (POSIX.1-2001) extended headers are
// deliberately unsupported and fail hard rather than being approximated.
//
// I/O is record-buffered: the underlying stream is transferred in records of
// a configurable number of 512-byte blocks (20 by default), and finalized
// archives are padded to a record boundary. Access is strictly sequential;
// one Reader or Writer owns one stream cursor.
//
// # Reading
//
//	r := ustar.NewReader(f)
//	for {
//	    hdr, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    if err := r.Extract(hdr, filepath.Join(dest, hdr.Name)); err != nil {
//	        return err
//	    }
//	}
//
// # Writing
//
//	w := ustar.NewWriter(f, ustar.WriteOptions{})
//	if err := w.Add("hello", []byte("text from string")); err != nil {
//	    return err
//	}
//	if err := w.Close(); err != nil {
//	    return err
//	}
//
// The writer supports regular-file members only; directories, links, and
// devices are read-side concerns. Headers are validated with both the POSIX
// unsigned checksum and the legacy signed byte sum, so archives from
// historically buggy writers still verify.
package ustar
