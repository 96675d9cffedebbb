// Package parser extracts documented Model-Specific Register addresses from a
// pdftotext rendering of a processor architecture manual. It scans a window of
// lines for "Register Address:" table rows, classifies each row's token as a
// single address, an inclusive range or a "+n" register family, and collects
// the expanded addresses into a sorted, de-duplicated report.
package parser
