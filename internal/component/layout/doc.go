/*
Package layout measures a component document without a rendering engine.

# Overview

A Document wraps the component's HTML (parsed with goquery) together with the
viewport height the host last applied to the embedding container. Heights are
derived from content flow: an element with an explicit height (inline
`height: Npx` or a `data-height` attribute) reports it, any other element is
the sum of its visible children's outer heights. Margins and padding declared
inline are honored; border, floats and inline formatting are not modelled.

# Measurement

ContentHeight measures the designated content element. It depends only on the
content, never on the container, so shrinkage stays visible after the host
has applied a fixed height.

DocumentHeight measures the whole document and is bounded below by the
viewport. It is only a fallback for documents lacking the designated element:
once the host applies a height, DocumentHeight can no longer report anything
smaller.
*/
package layout
