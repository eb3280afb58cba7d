// Package garagedocs renders garage business documents (tax invoices,
// repair estimates, job cards and service invoices) as paginated A4 PDFs.
//
// The root package provides Document, a point-based drawing canvas on top of
// github.com/go-pdf/fpdf. Text is positioned by the top of its first line,
// wrapped text is measured and drawn with the same line splitter, and
// Document implements layout.Measurer so that the pagination decisions made
// by the layout package match what ends up on the page.
//
// Sub-packages:
//
//	layout     flow layout: immutable cursor state and page-break driver
//	table      schema-driven table renderer with group rows
//	money      INR formatting, amounts in words, GST split and totals
//	media      remote image fetch, image normalization, UPI QR codes
//	documents  the document generators and their JSON payloads
//	storage    S3-compatible upload of rendered files
//	publish    render, upload, record and cache pipeline
//	server     HTTP API
package garagedocs
