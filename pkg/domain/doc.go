/*
Package domain contains the core domain models of the decision-point protocol.

It defines the question round an agent asks, the answers an operator gives and the
state of one answer dialog. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Round: The ordered set of 1-5 Questions surfaced together by the agent.
  - Question: A labelled prompt with 2-5 Options, answered single- or multi-select.
  - Option: One choice. The last Option of every Question is the free-text sentinel.
  - Answer: Either a set of selected option indices or a free-text string, never both.
  - DialogState: The persistent model of one answer dialog (tab, answers, edit mode).
  - UserInput: The single outbound message carrying the encoded reply.
*/
package domain
